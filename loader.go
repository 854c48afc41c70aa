package ivee

import "golang.org/x/sys/unix"

// Format selects how LoadExecutable interprets the file at a given path.
type Format int

const (
	// FormatBin loads the file as a raw flat binary.
	FormatBin Format = iota
	// FormatELF64 loads the file as a 64-bit ELF executable or shared
	// object.
	FormatELF64
	// FormatAny tries FormatELF64 first and falls back to FormatBin on
	// any failure; only the flat-binary result determines success of
	// the fallback.
	FormatAny
)

func (f Format) String() string {
	switch f {
	case FormatBin:
		return "bin"
	case FormatELF64:
		return "elf64"
	case FormatAny:
		return "any"
	default:
		return "unknown"
	}
}

// flatBinaryLoadAddr is the fixed guest-virtual (and, since the mapping is
// identity, guest-physical) address raw flat binaries are loaded at.
const flatBinaryLoadAddr = 0x400000

func checkFileAccess(path string) error {
	if path == "" {
		return newErr(KindInvalidArg, "path must not be empty")
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return wrapErr(KindInvalidArg, err, "file %q is not readable and executable", path)
	}
	return nil
}

// loadImage populates mm with the regions described by the executable at
// path and returns the guest entry address. On any failure mm is left
// empty: each concrete loader discards its own partial work before
// returning an error, so a FormatAny fallback starts from a clean map.
func loadImage(mm *MemoryMap, path string, format Format) (uint64, error) {
	if err := checkFileAccess(path); err != nil {
		return 0, err
	}

	switch format {
	case FormatBin:
		return loadFlatBinary(mm, path)
	case FormatELF64:
		return loadELF64(mm, path)
	case FormatAny:
		entry, err := loadELF64(mm, path)
		if err == nil {
			return entry, nil
		}
		return loadFlatBinary(mm, path)
	default:
		return 0, newErr(KindInvalidArg, "unrecognized executable format %d", format)
	}
}
