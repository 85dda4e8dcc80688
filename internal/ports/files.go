package ports

// FileStore provides file-level access to project locations
type FileStore interface {
	Read(location string) (string, error)
	Write(location, content string) error
	Exists(location string) bool
	IsDir(location string) bool

	// IsHidden and SetHidden toggle the hidden attribute where the platform has one
	IsHidden(location string) (bool, error)
	SetHidden(location string, hidden bool) error
}
