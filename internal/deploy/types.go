// Package deploy orchestrates bulk compile and copy actions for the vgd
// front-end: it loads an action list from a config file, runs the actions
// against a shared file cache, and reports timing and cache statistics.
package deploy

// Actions is a deployment configuration: a compilation root plus an ordered
// list of actions.
type Actions struct {
	// Root is the root directory every compile resolves absolute template
	// paths against.
	Root string `json:"root" yaml:"root"`
	// Actions is the ordered action list.
	Actions []Action `json:"actions" yaml:"actions"`
}

// Action is one deployment step. Exactly one of the fields must be set.
type Action struct {
	CompileFile      *CompileFileOptions      `json:"compile_file,omitempty" yaml:"compile_file,omitempty"`
	CompileDirectory *CompileDirectoryOptions `json:"compile_directory,omitempty" yaml:"compile_directory,omitempty"`
	CopyFile         *CopyFileOptions         `json:"copy_file,omitempty" yaml:"copy_file,omitempty"`
	CopyDirectory    *CopyDirectoryOptions    `json:"copy_directory,omitempty" yaml:"copy_directory,omitempty"`
}

// CompileFileOptions compiles a single template to a destination file.
type CompileFileOptions struct {
	// Source is the template path.
	Source string `json:"source" yaml:"source"`
	// Implementations are per-action variable implementations. They override
	// global ones.
	Implementations map[string]string `json:"implementations,omitempty" yaml:"implementations,omitempty"`
	// Destination is the output file path.
	Destination string `json:"destination" yaml:"destination"`
	// DeleteIfIgnored deletes a stale destination when the source opts out
	// via {% ignore %}. Defaults to true.
	DeleteIfIgnored *bool `json:"delete_if_ignored,omitempty" yaml:"delete_if_ignored,omitempty"`
}

// CopyFileOptions copies a single file.
type CopyFileOptions struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// CopyDirectoryOptions recursively copies a directory.
type CopyDirectoryOptions struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	// Extension restricts the copy to files with this extension.
	Extension *string `json:"extension,omitempty" yaml:"extension,omitempty"`
	// Ignore lists doublestar glob patterns of paths to skip.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// CompileFromSourceOptions names the source side of a directory compile.
type CompileFromSourceOptions struct {
	Directory       string            `json:"directory" yaml:"directory"`
	Implementations map[string]string `json:"implementations,omitempty" yaml:"implementations,omitempty"`
	// Extension selects which immediate children of Directory are compiled.
	Extension string `json:"extension" yaml:"extension"`
}

// CompileToDestinationOptions names the destination side of a directory
// compile.
type CompileToDestinationOptions struct {
	Directory string `json:"directory" yaml:"directory"`
	// Extension replaces the source extension on output files.
	Extension       string `json:"extension" yaml:"extension"`
	DeleteIfIgnored *bool  `json:"delete_if_ignored,omitempty" yaml:"delete_if_ignored,omitempty"`
}

// CompileDirectoryOptions compiles every matching file of a directory.
type CompileDirectoryOptions struct {
	Source      CompileFromSourceOptions    `json:"source" yaml:"source"`
	Destination CompileToDestinationOptions `json:"destination" yaml:"destination"`
}

// deleteIfIgnored resolves the tri-state flag with its default of true.
func deleteIfIgnored(flag *bool) bool {
	if flag == nil {
		return true
	}
	return *flag
}
