package enhance

// Version is the library release, reported by the CLI.
const Version = "0.1.0"
