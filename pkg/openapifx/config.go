package openapifx

type Config struct {
	Enabled bool
	// PublicHost overrides the host advertised in the document, e.g. behind a proxy.
	PublicHost string
	// PublicPath overrides the advertised base path.
	PublicPath string
}
