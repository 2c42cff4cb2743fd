// Package apache turns Apache VirtualHost configuration into dashboard entries
// and back.
//
// The Accumulator merges pasted text and uploaded files into one buffer. Extract
// scans that buffer in two stages: Blocks segments it into <VirtualHost> blocks,
// then each block is searched for its first ServerName and its first
// "ProxyPass / http(s)://host" directive. Render goes the other way and writes a
// VirtualHost for a service, in a form Extract reads back.
package apache
