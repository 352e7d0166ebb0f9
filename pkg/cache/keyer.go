package cache

// Keyer builds cache keys for the pipeline stages. Using an interface
// here lets the server prepend tenant scopes without the stages knowing.
type Keyer interface {
	// AssemblyKey identifies the enumerated and composed pages for a
	// selection. selectionHash is the hash of the serialized selection
	// plus the referenced layout and module specs.
	AssemblyKey(selectionHash string, opts AssemblyKeyOpts) string

	// TextKey identifies generated copy for a set of slot requests.
	TextKey(requestsHash string, opts TextKeyOpts) string

	// ArtifactKey identifies one rendered output of a composed page.
	ArtifactKey(specHash string, opts ArtifactKeyOpts) string
}

// AssemblyKeyOpts are the enumeration parameters that change the output.
type AssemblyKeyOpts struct {
	Cap int
}

// TextKeyOpts are the generation parameters that change the output.
type TextKeyOpts struct {
	Topic string
	Model string
}

// ArtifactKeyOpts are the render parameters that change the output.
type ArtifactKeyOpts struct {
	Format string
}

// DefaultKeyer is the standard key builder. All keys embed a full
// SHA-256 of their inputs, so they are safe as file names and Redis keys
// alike.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// AssemblyKey generates a key for cached enumeration output.
func (k *DefaultKeyer) AssemblyKey(selectionHash string, opts AssemblyKeyOpts) string {
	return hashKey("assembly", selectionHash, opts.Cap)
}

// TextKey generates a key for cached generated copy.
func (k *DefaultKeyer) TextKey(requestsHash string, opts TextKeyOpts) string {
	return hashKey("text", requestsHash, opts.Topic, opts.Model)
}

// ArtifactKey generates a key for a cached rendered artifact.
func (k *DefaultKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", specHash, opts.Format)
}
