/*
Package modload is a registry for toolchain components shipped as separately loadable units.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. A component is addressed by a (type, keyword) pair, such as ("objfmt", "coff").
 2. The pair maps to a unit named type_keyword, found by a [Loader] that may try platform extensions.
 3. A unit exports data symbols named yasm_<keyword>_LTX_<symbol>, see [SymbolName].
 4. A [Registry] opens each pair at most once and keeps it until [Registry.UnloadAll] or [Registry.Close].

# Backends

  - native: C shared libraries via [purego], without cgo.
  - object: Go relocatable objects and serialized linkables via [goloader].
  - memory: units registered in process, used for statically linked components and tests.

# Notes

 1. Missing units, symbols or descriptors are ordinary absent results, never errors.
 2. The host must close the registry once before exit, so every native handle is released.
 3. A record is never replaced: the first unit loaded for a pair wins until unload.
 4. Sym must be used while its module is loaded. After unload the address is dangling.
 5. The object backend builds only on a prepared go sdk, run `gosdk prepare` first and `gosdk clean` to restore.

# Samples

See testdata and tests.

[goloader]: https://github.com/pkujhd/goloader
[purego]: https://github.com/ebitengine/purego
*/
package modload
