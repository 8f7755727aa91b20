package content

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dunecrest/realty-api/internal/httpapi"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// mediaResolver rewrites stored media paths into absolute URLs.
type mediaResolver interface {
	ResolveMedia(origin string)
}

// Resource is the shared CRUD surface for one content entity. Reads are
// public, writes are mounted behind the admin predicate in the router.
type Resource[T any, PT interface {
	*T
	mediaResolver
}] struct {
	DB     *gorm.DB
	Origin string
}

func NewResource[T any, PT interface {
	*T
	mediaResolver
}](db *gorm.DB, origin string) *Resource[T, PT] {
	return &Resource[T, PT]{DB: db, Origin: origin}
}

// List handles GET /<resource>.
func (res *Resource[T, PT]) List(w http.ResponseWriter, r *http.Request) {
	var items []T
	if err := res.DB.Order("id").Find(&items).Error; err != nil {
		httpapi.Internal(w, "failed to list items")
		return
	}
	for i := range items {
		PT(&items[i]).ResolveMedia(res.Origin)
	}
	httpapi.JSON(w, http.StatusOK, items)
}

// Get handles GET /<resource>/{id}.
func (res *Resource[T, PT]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var item T
	if err := res.DB.First(&item, id).Error; err != nil {
		httpapi.NotFound(w, "item not found")
		return
	}
	PT(&item).ResolveMedia(res.Origin)
	httpapi.JSON(w, http.StatusOK, item)
}

// Create handles POST /<resource> (admin only).
func (res *Resource[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := res.DB.Create(&item).Error; err != nil {
		httpapi.Internal(w, "failed to create item")
		return
	}
	PT(&item).ResolveMedia(res.Origin)
	httpapi.JSON(w, http.StatusCreated, item)
}

// Update handles PUT /<resource>/{id} (admin only). The payload replaces
// the stored row, keeping id and created_at.
func (res *Resource[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var existing T
	if err := res.DB.First(&existing, id).Error; err != nil {
		httpapi.NotFound(w, "item not found")
		return
	}
	var item T
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := res.DB.Model(&existing).Select("*").
		Omit("id", "created_at").Updates(&item).Error; err != nil {
		httpapi.Internal(w, "failed to update item")
		return
	}
	if err := res.DB.First(&existing, id).Error; err != nil {
		httpapi.Internal(w, "failed to reload item")
		return
	}
	PT(&existing).ResolveMedia(res.Origin)
	httpapi.JSON(w, http.StatusOK, existing)
}

// Delete handles DELETE /<resource>/{id} (admin only).
func (res *Resource[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var item T
	if err := res.DB.First(&item, id).Error; err != nil {
		httpapi.NotFound(w, "item not found")
		return
	}
	if err := res.DB.Delete(&item).Error; err != nil {
		httpapi.Internal(w, "failed to delete item")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func resourceID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return uint(id), true
}
