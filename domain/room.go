package domain

// Room is a named chat channel with a set of member user ids.
// A personal room shares its id with its owner user; explicit rooms get a
// generated id. Rooms are never destroyed, they simply hold zero members
// once everyone leaves.
type Room struct {
	ID      string
	Name    string
	Members map[string]struct{}
}

func NewRoom(id, name string) *Room {
	return &Room{
		ID:      id,
		Name:    name,
		Members: make(map[string]struct{}),
	}
}

func (r *Room) AddMember(userID string) {
	r.Members[userID] = struct{}{}
}

func (r *Room) RemoveMember(userID string) {
	delete(r.Members, userID)
}

func (r *Room) HasMember(userID string) bool {
	_, ok := r.Members[userID]
	return ok
}
