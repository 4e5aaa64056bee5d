package ir

// EngineVersion is the holical engine version recorded with saved runs.
const EngineVersion = "0.1.0"
