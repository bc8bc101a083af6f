package model

import "time"

// ServiceDefinition describes one entry of the service catalog.  The
// catalog is loaded once at startup and never mutated, so definitions
// may be shared freely across goroutines.
//
// Fields:
//  Name         – unique service name as shown on the menu.
//  Price        – price in whole currency units.
//  Duration     – session time this service adds to the booking window.
//  RequiresRoom – whether booking this service occupies a physical room.
type ServiceDefinition struct {
    Name         string
    Price        int64
    Duration     time.Duration
    RequiresRoom bool
}
