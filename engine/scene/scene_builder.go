package scene

import "log/slog"

// DeserializerBuilderOption is a functional option for configuring a Deserializer.
type DeserializerBuilderOption func(*deserializer)

// WithWorkers sets the number of workers that load images concurrently.
// Values below one are ignored.
//
// Parameters:
//   - n: the maximum number of workers
//
// Returns:
//   - DeserializerBuilderOption: a function that applies the workers option
func WithWorkers(n int) DeserializerBuilderOption {
	return func(d *deserializer) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithDecode decodes every fetched image on the worker pool. Textures get their pixel
// dimensions, and images whose bytes do not decode fall back to the placeholder.
//
// Parameters:
//   - decode: whether to decode
//
// Returns:
//   - DeserializerBuilderOption: a function that applies the decode option
func WithDecode(decode bool) DeserializerBuilderOption {
	return func(d *deserializer) {
		d.decode = decode
	}
}

// WithLogger sets the deserializer logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - DeserializerBuilderOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) DeserializerBuilderOption {
	return func(d *deserializer) {
		if logger != nil {
			d.logger = logger
		}
	}
}
