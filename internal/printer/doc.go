// Package printer manages ESC/POS printer entries and drives the
// physical devices.
//
// A Printer entry describes one target device and how to reach it:
// over TCP (port 9100 raw printing), a USB character device, a serial
// port, or a raw CUPS queue. Entries persist in SQLite behind a cached
// Registry; the Manager materializes one Adapter per entry, which
// serializes operations, tracks reachability, and ships command
// documents built by the escpos package through the entry's Transport.
package printer
