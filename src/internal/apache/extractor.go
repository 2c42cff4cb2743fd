package apache

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/homedash/homedash/src/internal/catalog"
)

const (
	openTag  = "<VirtualHost"
	closeTag = "</VirtualHost>"

	serverNameDirective = "ServerName"
	proxyPassDirective  = "ProxyPass"
)

// Result is the outcome of extracting one buffer.
type Result struct {
	// BlocksFound counts every VirtualHost block, usable or not.
	BlocksFound int
	// Candidates holds one candidate per usable block, in buffer order.
	Candidates []catalog.Candidate
}

// Blocks yields the VirtualHost blocks of text left to right. Each opening tag
// is paired with the nearest closing tag after it, and blocks never overlap.
// An opening tag without a closing tag after it ends the scan.
func Blocks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		pos := 0
		for {
			start := indexOpenTag(text, pos)
			if start < 0 {
				return
			}
			end := strings.Index(text[start+len(openTag):], closeTag)
			if end < 0 {
				return
			}
			end += start + len(openTag) + len(closeTag)

			if !yield(text[start:end]) {
				return
			}
			pos = end
		}
	}
}

// ExtractAll yields one slot per VirtualHost block: the candidate it describes,
// or nil when the block lacks a ServerName or a root ProxyPass to an http(s) host.
func ExtractAll(text string) iter.Seq[*catalog.Candidate] {
	return func(yield func(*catalog.Candidate) bool) {
		for block := range Blocks(text) {
			if !yield(candidateFromBlock(block)) {
				return
			}
		}
	}
}

// Extract runs ExtractAll to completion.
func Extract(text string) Result {
	var res Result
	for c := range ExtractAll(text) {
		res.BlocksFound++
		if c != nil {
			res.Candidates = append(res.Candidates, *c)
		}
	}
	return res
}

func candidateFromBlock(block string) *catalog.Candidate {
	serverName, ok := findServerName(block)
	if !ok {
		return nil
	}
	target, ok := findRootProxyPass(block)
	if !ok {
		return nil
	}

	return &catalog.Candidate{
		Title:       serverName,
		URL:         "http://" + serverName,
		Description: "Apache Reverse Proxy to " + target + " (Detected)",
		Upstream:    target,
	}
}

// indexOpenTag finds the next "<VirtualHost" at or after pos that is followed by
// whitespace or '>'.
func indexOpenTag(text string, pos int) int {
	for pos < len(text) {
		i := strings.Index(text[pos:], openTag)
		if i < 0 {
			return -1
		}
		i += pos
		after := i + len(openTag)
		if after < len(text) {
			r, _ := utf8.DecodeRuneInString(text[after:])
			if r == '>' || unicode.IsSpace(r) {
				return i
			}
		}
		pos = after
	}
	return -1
}

// findServerName returns the value of the first ServerName directive that has one.
// The value runs up to whitespace or a '#'.
func findServerName(block string) (string, bool) {
	for rest := range directiveTails(block, serverNameDirective) {
		rest, ok := skipSpace(rest)
		if !ok {
			continue
		}
		if value := token(rest, func(r rune) bool { return r == '#' }); value != "" {
			return value, true
		}
	}
	return "", false
}

// findRootProxyPass returns scheme://host[:port] of the first "ProxyPass / <url>"
// whose url is http or https.
func findRootProxyPass(block string) (string, bool) {
	for rest := range directiveTails(block, proxyPassDirective) {
		rest, ok := skipSpace(rest)
		if !ok || !strings.HasPrefix(rest, "/") {
			continue
		}
		rest, ok = skipSpace(rest[1:])
		if !ok {
			continue
		}

		for _, scheme := range []string{"https://", "http://"} {
			if !strings.HasPrefix(rest, scheme) {
				continue
			}
			host := token(rest[len(scheme):], func(r rune) bool { return r == '/' })
			if host != "" {
				return scheme + host, true
			}
		}
	}
	return "", false
}

// directiveTails yields the text following each occurrence of name, in order.
func directiveTails(block, name string) iter.Seq[string] {
	return func(yield func(string) bool) {
		pos := 0
		for {
			i := strings.Index(block[pos:], name)
			if i < 0 {
				return
			}
			pos += i + len(name)
			if !yield(block[pos:]) {
				return
			}
		}
	}
}

// skipSpace drops leading whitespace. It reports false if there was none.
func skipSpace(s string) (string, bool) {
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	return trimmed, len(trimmed) < len(s)
}

// token returns the prefix of s up to whitespace or a rune accepted by stop.
func token(s string, stop func(rune) bool) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || stop(r)
	})
	if end < 0 {
		return s
	}
	return s[:end]
}
