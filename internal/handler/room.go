package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wmu/thats-my-spot/internal/model"
	"github.com/wmu/thats-my-spot/internal/repository"
)

// RoomHandler exposes room catalog endpoints.  Writes require the ADMIN
// role; reads are public so the booking UI can render the catalog before
// sign-in.
type RoomHandler struct {
	Rooms     *repository.RoomRepo
	Buildings *repository.BuildingRepo
}

func NewRoomHandler(r *repository.RoomRepo, b *repository.BuildingRepo) *RoomHandler {
	return &RoomHandler{Rooms: r, Buildings: b}
}

// roomReq mirrors the room JSON shape.  Features is kept raw so arbitrary
// JSON documents round-trip byte-for-byte through the store.
type roomReq struct {
	Name       string          `json:"name"`
	BuildingID uint64          `json:"buildingId"`
	Capacity   int             `json:"capacity"`
	Features   json.RawMessage `json:"features"`
	AccessType string          `json:"accessType"`
	IsActive   *bool           `json:"isActive"`
	ImagePath  *string         `json:"imagePath"`
}

func (req *roomReq) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.BuildingID == 0 {
		return "buildingId is required"
	}
	if req.Capacity < 1 {
		return "capacity must be at least 1"
	}
	if len(req.Features) > 0 && !json.Valid(req.Features) {
		return "features must be valid JSON"
	}
	return ""
}

// List handles GET /api/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	out, err := h.Rooms.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rm)
}

// ListByBuilding handles GET /api/buildings/:id/rooms.
func (h *RoomHandler) ListByBuilding(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Buildings.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBuildingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	out, err := h.Rooms.ListByBuilding(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/rooms (ADMIN).
func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Buildings.GetByID(ctx, req.BuildingID); err != nil {
		if errors.Is(err, repository.ErrBuildingNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "building does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	rm := &model.Room{
		Name:       req.Name,
		BuildingID: req.BuildingID,
		Capacity:   uint32(req.Capacity),
		Features:   req.Features,
		AccessType: req.AccessType,
		IsActive:   true,
		ImagePath:  req.ImagePath,
	}
	if req.IsActive != nil {
		rm.IsActive = *req.IsActive
	}
	if err := h.Rooms.Create(ctx, rm); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room name already used in this building"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
	}
	return c.JSON(http.StatusOK, rm)
}

// Update handles PUT /api/rooms/:id (ADMIN).
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Buildings.GetByID(ctx, req.BuildingID); err != nil {
		if errors.Is(err, repository.ErrBuildingNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "building does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	rm := &model.Room{
		ID:         id,
		Name:       req.Name,
		BuildingID: req.BuildingID,
		Capacity:   uint32(req.Capacity),
		Features:   req.Features,
		AccessType: req.AccessType,
		IsActive:   true,
		ImagePath:  req.ImagePath,
	}
	if req.IsActive != nil {
		rm.IsActive = *req.IsActive
	}
	if err := h.Rooms.Update(ctx, rm); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room name already used in this building"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update room"})
	}
	return c.JSON(http.StatusOK, rm)
}

// Delete handles DELETE /api/rooms/:id (ADMIN).  Rooms are retired, not
// removed: existing bookings keep resolving and the id stays reserved.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Rooms.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete room"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
