package deploy

import "encoding/json"

// ExampleActions returns a configuration demonstrating every action kind.
func ExampleActions() *Actions {
	no := false
	yes := true
	ext := "an_optional_file_ext"

	return &Actions{
		Root: "path/to/root/dir",
		Actions: []Action{
			{
				CompileFile: &CompileFileOptions{
					Source:          "path/to.source",
					Implementations: map[string]string{"variable": "Value"},
					Destination:     "path/to/destination",
					DeleteIfIgnored: &no,
				},
			},
			{
				CompileDirectory: &CompileDirectoryOptions{
					Source: CompileFromSourceOptions{
						Directory:       "./path/to/source/directory",
						Implementations: map[string]string{"variable": "Value"},
						Extension:       "extension_to_compile",
					},
					Destination: CompileToDestinationOptions{
						Directory:       "./path/to/destination/directory",
						Extension:       "extension_to_compile_to",
						DeleteIfIgnored: &yes,
					},
				},
			},
			{
				CopyFile: &CopyFileOptions{
					Source:      "./path/to/source.file",
					Destination: "./path/to/destination.file",
				},
			},
			{
				CopyDirectory: &CopyDirectoryOptions{
					Source:      "./path/to/source/directory",
					Destination: "./path/to/destination/directory",
					Extension:   &ext,
				},
			},
		},
	}
}

// MarshalExample renders the example configuration as indented JSON.
func MarshalExample() (string, error) {
	data, err := json.MarshalIndent(ExampleActions(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
