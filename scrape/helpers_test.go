package scrape

import "github.com/eyeonstox/stoxagent/config"

// defaultSelectors returns the built-in selector set for tests.
func defaultSelectors() config.SelectorConfig {
	return config.Load().Selectors
}
