// Package mode applies the boot mode before the server starts.
//
// Production boots do nothing here. Development boots install the
// application package in editable form so source mounted into the
// container is picked up by the reloading server.
package mode
