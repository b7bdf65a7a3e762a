package backend

// AdapterBuilderOption is a functional option for configuring an Adapter via NewAdapter.
type AdapterBuilderOption func(*adapter)

// WithProjectRoot sets the project root canonical paths resolve relative to.
//
// Parameters:
//   - root: the project root
//
// Returns:
//   - AdapterBuilderOption: a function that applies the project root option to an adapter
func WithProjectRoot(root string) AdapterBuilderOption {
	return func(a *adapter) {
		a.projectRoot = root
	}
}

// WithProbe sets the environment probe used to detect the backend mode.
//
// Parameters:
//   - probe: the capability probe
//
// Returns:
//   - AdapterBuilderOption: a function that applies the probe option to an adapter
func WithProbe(probe Probe) AdapterBuilderOption {
	return func(a *adapter) {
		a.probe = probe
	}
}

// WithBridge sets the native bridge used in native mode. Without an explicit probe the
// bridge alone counts as a native environment.
//
// Parameters:
//   - bridge: the native bridge
//
// Returns:
//   - AdapterBuilderOption: a function that applies the bridge option to an adapter
func WithBridge(bridge NativeBridge) AdapterBuilderOption {
	return func(a *adapter) {
		a.bridge = bridge
	}
}

// WithMode forces the backend mode, skipping detection.
//
// Parameters:
//   - mode: the backend mode
//
// Returns:
//   - AdapterBuilderOption: a function that applies the mode option to an adapter
func WithMode(mode Mode) AdapterBuilderOption {
	return func(a *adapter) {
		a.mode = mode
		a.modeSet = true
	}
}

// WithAPIBase prefixes rewritten HTTP API URLs with a scheme and host, e.g.
// "http://localhost:5173". The default is "", yielding host-relative URLs.
//
// Parameters:
//   - base: the URL prefix, without trailing slash
//
// Returns:
//   - AdapterBuilderOption: a function that applies the API base option to an adapter
func WithAPIBase(base string) AdapterBuilderOption {
	return func(a *adapter) {
		for len(base) > 0 && base[len(base)-1] == '/' {
			base = base[:len(base)-1]
		}
		a.apiBase = base
	}
}
