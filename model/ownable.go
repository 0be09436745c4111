package model

// Ownable is implemented by every resource that is subject to the owner-or-admin
// mutation rule. Each resource knows which of its fields names the owning user;
// the rule itself lives in one place (middlewares.CanModify).
type Ownable interface {
	OwnerID() string
}
