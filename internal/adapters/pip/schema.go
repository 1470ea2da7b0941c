package pip

// resolveReport is the JSON document emitted by the resolver helper.
type resolveReport struct {
	// Matches are the matched candidates, flat.
	Matches []matchDTO `json:"matches"`

	// ReverseDependencies maps a child package name to the names of its
	// direct parents.
	ReverseDependencies map[string][]string `json:"reverse_dependencies"`
}

// matchDTO is a single matched candidate in the resolver report.
type matchDTO struct {
	Name      string `json:"name"`
	Specifier string `json:"specifier"`
	Link      string `json:"link,omitempty"`
	Editable  bool   `json:"editable,omitempty"`
}

// hashReport is the JSON document emitted for a single pinned requirement.
type hashReport struct {
	Hashes []string `json:"hashes"`
}
