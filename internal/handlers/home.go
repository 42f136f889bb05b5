package handlers

import (
	"net/http"

	"github.com/Harikrish-25/period-care/internal/models"
)

// Public catalog reads. Only available items are listed unless the caller
// passes available_only=false.

func (a *API) ListKits(w http.ResponseWriter, r *http.Request) {
	kits, err := a.Catalog.ListKits(r.Context(), queryBool(r, "available_only", true))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(kits))
}

func (a *API) KitsByType(w http.ResponseWriter, r *http.Request) {
	kits, err := a.Catalog.KitsByType(r.Context(), models.KitType(r.PathValue("type")))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(kits))
}

func (a *API) GetKit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	kit, err := a.Catalog.GetKit(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

func (a *API) ListAddOns(kind models.AddOnKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := a.Catalog.ListAddOns(r.Context(), kind, queryBool(r, "available_only", true))
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(items))
	}
}

func (a *API) GetAddOn(kind models.AddOnKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		item, err := a.Catalog.GetAddOn(r.Context(), kind, id)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}
