package observe

// Version is the library version, surfaced by the obswatch CLI.
const Version = "0.1.0"
