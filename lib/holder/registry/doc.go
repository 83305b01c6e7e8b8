// Package registry provides a concurrent collection of named shared
// holders, e.g. one per price feed. Holders are created lazily on first
// lookup and handed out as sholder handles.
package registry
