package player

type AlertPriority int

const (
	None AlertPriority = iota
	Notify
	Warning
	Error
)

// Alert is a transient notification from the player to the presentation
// layer, sent as MsgToModel.Data. The player never logs on its own; anything
// worth telling the user travels through here.
type Alert struct {
	Name     string
	Message  string
	Priority AlertPriority
}
