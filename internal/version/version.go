package version

// Version is the current dash release. Bump it on every release.
const Version = "0.3.0"
