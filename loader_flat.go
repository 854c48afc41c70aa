package ivee

import "os"

// loadFlatBinary maps the whole file read-only and executable at
// flatBinaryLoadAddr. The entry point is the image's first byte.
func loadFlatBinary(mm *MemoryMap, path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, wrapErr(KindIOError, err, "failed to open %q", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, wrapErr(KindIOError, err, "failed to stat %q", path)
	}
	if info.Size() == 0 {
		return 0, newErr(KindInvalidArg, "flat binary %q is empty", path)
	}

	if _, err := mm.MapHostMemory(flatBinaryLoadAddr, uint64(info.Size()), f, true, ProtRead|ProtExec); err != nil {
		mm.Free()
		return 0, err
	}

	return flatBinaryLoadAddr, nil
}
