//go:build ctransformers

package engine

// cgo link directives for the in-process ctransformers engine.
// - We set an rpath of $ORIGIN so the runtime loader finds libctransformers.so
//   in the same directory as the built Go binary (./bin).
// - We add -L${SRCDIR}/../../bin so the linker finds libctransformers.so at
//   link time when building the 'ctransformers' variant.
// - No environment variables are required.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lctransformers
*/
import "C"
