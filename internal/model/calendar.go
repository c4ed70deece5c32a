package model

type Calendar struct {
	ID          int64
	Title       string
	SourceTitle string
	Color       string
	ColorName   string
	Editable    bool
	Subscribed  bool
	Default     bool
}
