package modload

type (
	// Loader opens loadable units by name. It may try platform specific
	// extensions and search directories. Any error means the unit is absent.
	Loader interface {
		Open(name string) (Handle, error)
	}
	// Handle is an opened unit. It is owned by exactly one Module.
	Handle interface {
		Lookup(symbol string) (Sym, bool) //lookup a symbol by its exact exported name
		Close() error                     //release the unit, called once by the owner
	}
	// DescriptorDecoder is implemented by loaders which know how their units lay out a Descriptor.
	DescriptorDecoder interface {
		Decode(sym Sym) (Descriptor, bool)
	}
	// LoaderFunc adapts a function to a Loader.
	LoaderFunc func(name string) (Handle, error)
)

func (f LoaderFunc) Open(name string) (Handle, error) {
	return f(name)
}
