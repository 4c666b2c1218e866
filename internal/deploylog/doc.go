// Package deploylog locates externally generated deployment log files and
// parses their labeled fields into deployment records used for commit
// messages. Records are read-only inputs; the package never writes them back.
package deploylog
