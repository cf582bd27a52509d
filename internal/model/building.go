package model

// Building represents a campus building containing bookable rooms.
// This struct corresponds to a row in the `buildings` table.
//
// Fields:
//  ID   – primary key identifier.
//  Name – human-friendly name; must be non-empty.
type Building struct {
    ID   uint64 `json:"id"`   // buildings.id
    Name string `json:"name"` // buildings.name
}
