package ws

const (
	// client - server
	MsgPing   = "ping"
	MsgStart  = "start"
	MsgClick  = "click"
	MsgFlag   = "flag"
	MsgPause  = "pause"
	MsgResume = "resume"
	MsgReset  = "reset"
	MsgState  = "state"

	// server - client
	MsgReady    = "ready"
	MsgPong     = "pong"
	MsgTick     = "tick"
	MsgFinished = "finished"
	MsgError    = "error"
)
