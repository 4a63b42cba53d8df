package qirlib

// Version is the library release version, reported by the linker driver's
// --version flag and by cmd/qirlink.
const Version = "0.10.0"
