package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey is the key of one rendered output of a description.
	ArtifactKey(descHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every option that changes rendered output.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	Stylesheet    string  `json:"stylesheet,omitempty"`
	Markers       bool    `json:"markers"`
	SimpleMarkers bool    `json:"simple_markers,omitempty"`
	Debug         bool    `json:"debug,omitempty"`
	EmbedFont     bool    `json:"embed_font,omitempty"`
	Measurer      string  `json:"measurer,omitempty"`
	Scale         float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key builder.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the description hash with the options.
func (DefaultKeyer) ArtifactKey(descHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", descHash, opts)
}
