package handlers

import (
	"net/http"

	"github.com/Harikrish-25/period-care/internal/models"
)

// Updates decode the body over the stored record, so omitted fields keep
// their current values.

func (a *API) ListBenefits(w http.ResponseWriter, r *http.Request) {
	benefits, err := a.CMS.Benefits(r.Context(), queryBool(r, "active_only", true))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(benefits))
}

func (a *API) CreateBenefit(w http.ResponseWriter, r *http.Request) {
	b := &models.Benefit{IsActive: true}
	if !decodeJSON(w, r, b) {
		return
	}
	b.ID = 0
	if err := a.CMS.CreateBenefit(r.Context(), b); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (a *API) UpdateBenefit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := a.CMS.GetBenefit(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if !decodeJSON(w, r, b) {
		return
	}
	b.ID = id
	if err := a.CMS.UpdateBenefit(r.Context(), b); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (a *API) DeleteBenefit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.CMS.DeleteBenefit(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeMessage(w, "Benefit deleted successfully")
}

func (a *API) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := a.CMS.Testimonials(r.Context(), queryBool(r, "active_only", true), queryBool(r, "featured_only", false))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(items))
}

func (a *API) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	t := &models.Testimonial{IsActive: true}
	if !decodeJSON(w, r, t) {
		return
	}
	t.ID = 0
	if err := a.CMS.CreateTestimonial(r.Context(), t); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a *API) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := a.CMS.GetTestimonial(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if !decodeJSON(w, r, t) {
		return
	}
	t.ID = id
	if err := a.CMS.UpdateTestimonial(r.Context(), t); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.CMS.DeleteTestimonial(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeMessage(w, "Testimonial deleted successfully")
}
