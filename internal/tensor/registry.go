package tensor

// Namespace is the prefix under which dtype names are serialized
// ("born.float32", "born.bfloat16", ...).
const Namespace = "born"

// namespace maps identifiers to the entities they name. It holds every
// DataType plus non-dtype entities (devices), so lookups can distinguish
// "no such name" from "names something that is not a dtype".
var namespace = map[string]any{}

func init() {
	dtypes := []DataType{
		Float16, Float32, Float64,
		BFloat16, Complex32, Complex64, Complex128,
		Int8, Int16, Int32, Int64,
		Uint8, Bool,
		QInt8, QUInt8, QInt32, QUInt4x2, QUInt2x4,
	}
	for _, dt := range dtypes {
		namespace[dt.String()] = dt
	}
	devices := []Device{CPU, CUDA, Vulkan, Metal, WebGPU}
	for _, d := range devices {
		namespace[d.String()] = d
	}
}

// Lookup resolves an identifier within the dtype namespace.
// The identifier is the part after the "born." prefix.
func Lookup(name string) (any, bool) {
	entity, ok := namespace[name]
	return entity, ok
}
