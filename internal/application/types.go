package application

// Version is reported in the report header
const Version = "1.0"
