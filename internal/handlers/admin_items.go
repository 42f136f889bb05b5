package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/Harikrish-25/period-care/internal/models"
)

const (
	maxUploadSize = 10 << 20 // 10MB
	imageWidth    = 800
)

// Uploads is where resized kit images are written and the URL prefix they
// are served under.
type Uploads struct {
	Dir       string
	URLPrefix string
}

// kitInput carries create and update bodies. Update applies only the fields
// that are set.
type kitInput struct {
	Name          *string         `json:"name"`
	Type          *models.KitType `json:"type"`
	BasePrice     *float64        `json:"base_price"`
	ImageURL      *string         `json:"image_url"`
	IncludedItems []string        `json:"included_items"`
	Description   *string         `json:"description"`
	IsAvailable   *bool           `json:"is_available"`
}

func (in kitInput) apply(k *models.Kit) {
	if in.Name != nil {
		k.Name = *in.Name
	}
	if in.Type != nil {
		k.Type = *in.Type
	}
	if in.BasePrice != nil {
		k.BasePrice = *in.BasePrice
	}
	if in.ImageURL != nil {
		k.ImageURL = *in.ImageURL
	}
	if in.IncludedItems != nil {
		k.IncludedItems = in.IncludedItems
	}
	if in.Description != nil {
		k.Description = *in.Description
	}
	if in.IsAvailable != nil {
		k.IsAvailable = *in.IsAvailable
	}
}

type addOnInput struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Benefits    *string  `json:"benefits"`
	EmojiIcon   *string  `json:"emoji_icon"`
	IsAvailable *bool    `json:"is_available"`
}

func (in addOnInput) apply(a *models.AddOn) {
	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.Price != nil {
		a.Price = *in.Price
	}
	// Fruits call their description "benefits".
	if in.Benefits != nil {
		a.Description = *in.Benefits
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.EmojiIcon != nil {
		a.EmojiIcon = *in.EmojiIcon
	}
	if in.IsAvailable != nil {
		a.IsAvailable = *in.IsAvailable
	}
}

func (a *API) CreateKit(w http.ResponseWriter, r *http.Request) {
	var in kitInput
	if !decodeJSON(w, r, &in) {
		return
	}
	kit := &models.Kit{IsAvailable: true}
	in.apply(kit)
	if err := a.Catalog.CreateKit(r.Context(), kit); err != nil {
		a.writeError(w, r, err)
		return
	}
	slog.Info("Kit created", "kit_id", kit.ID, "name", kit.Name)
	writeJSON(w, http.StatusCreated, kit)
}

func (a *API) UpdateKit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in kitInput
	if !decodeJSON(w, r, &in) {
		return
	}
	kit, err := a.Catalog.GetKit(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	in.apply(kit)
	if err := a.Catalog.UpdateKit(r.Context(), kit); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

func (a *API) DeleteKit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.Catalog.DeleteKit(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}
	slog.Info("Kit deleted", "kit_id", id)
	writeMessage(w, "Kit deleted successfully")
}

func (a *API) ToggleKit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	kit, err := a.Catalog.ToggleKit(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("Kit %s", availabilityWord(kit.IsAvailable)),
		"is_available": kit.IsAvailable,
	})
}

// UploadKitImage stores a PNG or JPEG as an 800px wide JPEG and points the
// kit at it.
func (a *API) UploadKitImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if a.Uploads == nil {
		writeDetail(w, http.StatusServiceUnavailable, "Image uploads are disabled")
		return
	}
	if _, err := a.Catalog.GetKit(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeDetail(w, http.StatusBadRequest, "File too large or not a multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Missing image field")
		return
	}
	defer file.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		writeDetail(w, http.StatusBadRequest, "Unsupported image format")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Could not decode image")
		return
	}

	filename := uuid.NewString() + ".jpg"
	if err := writeJPEG(filepath.Join(a.Uploads.Dir, filename), resize.Resize(imageWidth, 0, img, resize.Lanczos3)); err != nil {
		a.writeError(w, r, err)
		return
	}

	kit, err := a.Catalog.SetKitImage(r.Context(), id, a.Uploads.URLPrefix+"/"+filename)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	slog.Info("Kit image updated", "kit_id", id, "file", filename)
	writeJSON(w, http.StatusOK, kit)
}

func writeJPEG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode upload: %w", err)
	}
	return out.Close()
}

func (a *API) CreateAddOn(kind models.AddOnKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in addOnInput
		if !decodeJSON(w, r, &in) {
			return
		}
		item := &models.AddOn{Kind: kind, IsAvailable: true}
		in.apply(item)
		if err := a.Catalog.CreateAddOn(r.Context(), item); err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func (a *API) UpdateAddOn(kind models.AddOnKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var in addOnInput
		if !decodeJSON(w, r, &in) {
			return
		}
		item, err := a.Catalog.GetAddOn(r.Context(), kind, id)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		in.apply(item)
		item.Kind = kind
		if err := a.Catalog.UpdateAddOn(r.Context(), item); err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func (a *API) DeleteAddOn(kind models.AddOnKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		if err := a.Catalog.DeleteAddOn(r.Context(), kind, id); err != nil {
			a.writeError(w, r, err)
			return
		}
		writeMessage(w, "Item deleted successfully")
	}
}

func (a *API) ToggleAddOn(kind models.AddOnKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		item, err := a.Catalog.ToggleAddOn(r.Context(), kind, id)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":      fmt.Sprintf("%s %s", item.Name, availabilityWord(item.IsAvailable)),
			"is_available": item.IsAvailable,
		})
	}
}

func availabilityWord(available bool) string {
	if available {
		return "made available"
	}
	return "made unavailable"
}
