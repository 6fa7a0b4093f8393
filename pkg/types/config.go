package types

// ExportBackend identifies the notebook-to-HTML export implementation.
type ExportBackend string

const (
	// BackendNative renders HTML in-process.
	BackendNative ExportBackend = "native"
	// BackendNbconvert pipes the notebook through jupyter nbconvert in a container.
	BackendNbconvert ExportBackend = "nbconvert"
)

// DefaultNbconvertImage is the container image used by the nbconvert backend
// when none is configured.
const DefaultNbconvertImage = "quay.io/jupyter/minimal-notebook:latest"

// ExportConfig holds settings for a conversion run. It is decoded from the
// nbexport.yaml config file, NBEXPORT_* environment variables, and flags.
type ExportConfig struct {
	// Notebooks lists the notebook paths to convert, in order.
	Notebooks []string `json:"notebooks" yaml:"notebooks" mapstructure:"notebooks"`

	// Index is converted after every entry in Notebooks. Empty means none.
	Index string `json:"index,omitempty" yaml:"index,omitempty" mapstructure:"index"`

	// Backend selects the exporter: native or nbconvert.
	Backend ExportBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Image is the container image for the nbconvert backend.
	Image string `json:"image,omitempty" yaml:"image,omitempty" mapstructure:"image"`

	// ContinueOnError keeps converting after a failure instead of stopping
	// at the first one.
	ContinueOnError bool `json:"continue_on_error" yaml:"continue_on_error" mapstructure:"continue_on_error"`

	// ExcludeInput hides code cell sources in the rendered HTML.
	ExcludeInput bool `json:"exclude_input" yaml:"exclude_input" mapstructure:"exclude_input"`

	// HistoryDB is the SQLite ledger path. Empty disables the ledger.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty" mapstructure:"history_db"`
}
