package model

// Room is a bookable room as stored in the `rooms` table.  Rooms are
// read-only context from the booking core's perspective: bookings hold a
// non-owning reference to a room and the conflict check is scoped per room.
//
// Fields:
//
//	ID       – primary key identifier.
//	Name     – human readable room name.
//	Type     – room kind (e.g. "Lecture Hall", "Lab", "Meeting Room").
//	Capacity – number of people the room holds.
type Room struct {
	ID       uint64 `json:"roomId"`   // rooms.room_id
	Name     string `json:"roomName"` // rooms.room_name
	Type     string `json:"type"`     // rooms.type
	Capacity int    `json:"capacity"` // rooms.capacity
}

// Building groups departments and (indirectly) rooms, per the `buildings`
// table.  Floors is nullable in the schema.
type Building struct {
	ID     uint64 `json:"buildingId"` // buildings.building_id
	Floors *int   `json:"floors"`     // buildings.floors (nullable)
}

// Department is an organizational unit inside a building.  Admin booking
// visibility is scoped by the department of the booking's owner.
type Department struct {
	ID         uint64 `json:"deptId"`     // departments.dept_id
	Name       string `json:"name"`       // departments.name
	BuildingID uint64 `json:"buildingId"` // departments.building_id
}
