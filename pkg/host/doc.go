// Package host is the web-host side of the template engines: it owns the
// places template sources are read from, runs blocking work off the caller's
// goroutine and carries the shared logger.
//
// Sources are looked up in a fixed order. Bundled resources (an fs.FS,
// typically an embed.FS compiled into the binary) come first, then the
// filesystem rooted at the working directory. The first root holding the
// requested file wins.
package host
