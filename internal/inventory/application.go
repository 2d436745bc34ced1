package inventory

// Application represents an application installed on the device.
type Application struct {
	Identifier string // Identifier is the unique package identifier of the application.
	Name       string // Name is the human-readable name of the application.
	Version    string // Version is the version of the application.
	Icon       []byte // Icon is the application icon, if the source provides one.
	Path       string // Path is the on-device path of the application's install package.
}
