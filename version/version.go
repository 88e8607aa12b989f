package version

// Version is the current haven release.
const Version = "0.1.0"
