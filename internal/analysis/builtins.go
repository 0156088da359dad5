package analysis

// builtinMutability maps plain-name callees to the mutability class they
// contribute to their caller. Names absent from the table are struct
// constructors, interface casts, flag types or pure builtins, all of which
// evaluate without touching state.
func builtinMutability(name string) MutabilityClass {
	if m, ok := builtinClasses[name]; ok {
		return m
	}
	return MutabilityPure
}

var builtinClasses = map[string]MutabilityClass{
	// Chain-state reads.
	"blockhash": MutabilityView,
	"blobhash":  MutabilityView,

	// External effects. raw_call can be issued as a static call, but the
	// flag is a runtime argument, so the conservative class applies.
	"raw_call":                MutabilityNonpayable,
	"send":                    MutabilityNonpayable,
	"selfdestruct":            MutabilityNonpayable,
	"raw_log":                 MutabilityNonpayable,
	"create_minimal_proxy_to": MutabilityNonpayable,
	"create_copy_of":          MutabilityNonpayable,
	"create_from_blueprint":   MutabilityNonpayable,
	"raw_create":              MutabilityNonpayable,
}
