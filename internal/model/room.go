package model

import "encoding/json"

// Room represents an individual bookable room within a building.
// Each room has a unique name per building.  Rooms are never hard
// deleted: flipping IsActive to false retires a room while keeping
// historical bookings resolvable.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – unique room name per building.
//  BuildingID – ID of the containing building (required).
//  Capacity   – seat capacity; must be at least 1.
//  Features   – free-form attribute document stored in a JSON column.
//               Carried as a raw message so arbitrary feature maps
//               round-trip byte for byte.
//  AccessType – access policy label (e.g. "public", "staff").
//  IsActive   – whether the room can accept new bookings.
//  ImagePath  – optional path to a room photo.
type Room struct {
    ID         uint64          `json:"id"`                  // rooms.id
    Name       string          `json:"name"`                // rooms.name
    BuildingID uint64          `json:"buildingId"`          // rooms.building_id
    Capacity   uint32          `json:"capacity"`            // rooms.capacity
    Features   json.RawMessage `json:"features,omitempty"`  // rooms.features (JSON document)
    AccessType string          `json:"accessType"`          // rooms.access_type
    IsActive   bool            `json:"isActive"`            // rooms.is_active
    ImagePath  *string         `json:"imagePath,omitempty"` // rooms.image_path (nullable)
}
