package combobox

// Messages are the user-facing strings of a combobox.
type Messages struct {
	Loading           string `yaml:"loading" toml:"loading"`
	NoResults         string `yaml:"no_results" toml:"no_results"`
	SearchPlaceholder string `yaml:"search_placeholder" toml:"search_placeholder"`
	Confirm           string `yaml:"confirm" toml:"confirm"`
	Clear             string `yaml:"clear" toml:"clear"`
	NoChoices         string `yaml:"no_choices" toml:"no_choices"`
	SelectOne         string `yaml:"select_one" toml:"select_one"`
	SelectMany        string `yaml:"select_many" toml:"select_many"`
}

// DefaultMessages returns the English strings.
func DefaultMessages() Messages {
	return Messages{
		Loading:           "Loading...",
		NoResults:         "No items found",
		SearchPlaceholder: "Search",
		Confirm:           "Confirm",
		Clear:             "Clear",
		NoChoices:         "No item was chosen",
		SelectOne:         "Select an item from the list",
		SelectMany:        "Select one or more items from the list",
	}
}

// Merge returns m with every non-empty field of o applied over it.
func (m Messages) Merge(o Messages) Messages {
	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	pick(&m.Loading, o.Loading)
	pick(&m.NoResults, o.NoResults)
	pick(&m.SearchPlaceholder, o.SearchPlaceholder)
	pick(&m.Confirm, o.Confirm)
	pick(&m.Clear, o.Clear)
	pick(&m.NoChoices, o.NoChoices)
	pick(&m.SelectOne, o.SelectOne)
	pick(&m.SelectMany, o.SelectMany)
	return m
}

// Prompt returns SelectOne or SelectMany for the multiplicity.
func (m Messages) Prompt(multiple bool) string {
	if multiple {
		return m.SelectMany
	}
	return m.SelectOne
}
