package domain

// Command is the closed sum of the five client commands.
// Dispatch is done with an exhaustive type switch, never dynamic inspection.
type Command interface {
	isCommand()
}

// Register creates a user and its personal room. reg$<name>
type Register struct {
	Username string
}

// CreateChan creates an explicit room owned by UserID. create_chan$<user_id>$<name>
type CreateChan struct {
	UserID   string
	RoomName string
}

// JoinChan adds UserID to the room's members. join$<user_id>$<room_id>
type JoinChan struct {
	UserID string
	RoomID string
}

// LeaveChan removes UserID from the room's members. leave$<user_id>$<room_id>
type LeaveChan struct {
	UserID string
	RoomID string
}

// SendMsg publishes Body to the room. send_msg$<user_id>$<room_id>$<body>
// Body is always the final field and may itself contain the separator.
type SendMsg struct {
	UserID string
	RoomID string
	Body   string
}

func (Register) isCommand()   {}
func (CreateChan) isCommand() {}
func (JoinChan) isCommand()   {}
func (LeaveChan) isCommand()  {}
func (SendMsg) isCommand()    {}
