//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package duocore

// duocore builds only for the little-endian architectures listed in
// le_check.go; this file stops the build on any other.
var _ = "duocore requires a little-endian architecture" + 1
