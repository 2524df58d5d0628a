// Package nscommands implements the namespace-management vocabulary
// spec.md §4.6/§6.2 calls out as a distinct layer ("L3: Namespace
// commands"): require, use, refer, alias, in-ns, load-file, and the
// classpath resolution they share.
//
// Grounded on the teacher's pkg/parser.CompileOption functional-options
// pattern (RequireOption here plays the same role as CompileOption: a
// closure configuring a request struct before the operation runs) and on
// pkg/cache.Cache, which backs Resolver's namespace-name -> (path, content)
// cache. The loaded-libs set that lets a repeated require skip loading is
// kept by runtime.Context (IsLoaded/MarkLoaded), one set per Context.
package nscommands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sandrolain/cljcore/pkg/cache"
	"github.com/sandrolain/cljcore/pkg/ns"
	"github.com/sandrolain/cljcore/pkg/runtime"
	"github.com/sandrolain/cljcore/pkg/value"
)

// maxClasspathRoots bounds the classpath list per spec.md §6.2 ("ordered
// list, up to 16 roots").
const maxClasspathRoots = 16

// sourceFile is what the classpath resolver caches: the resolved path and
// the file's content, keyed by dotted namespace name (spec.md §6.2).
type sourceFile struct {
	path    string
	content string
}

// Resolver resolves namespace names to classpath files and caches the
// result, avoiding re-reading the same file across repeated requires in
// one process (spec.md §6.2).
type Resolver struct {
	classpath []string
	cache     *cache.Cache[sourceFile]
}

// NewResolver builds a Resolver over classpath, truncated to the first 16
// roots per spec.md §6.2.
func NewResolver(classpath []string) *Resolver {
	if len(classpath) > maxClasspathRoots {
		classpath = classpath[:maxClasspathRoots]
	}
	return &Resolver{classpath: classpath, cache: cache.New[sourceFile](256)}
}

// nsPath converts a dotted namespace name to its relative path by turning
// each dot into the path separator; hyphens are kept as they are (spec.md
// §6.2: "no other sanitisation").
func nsPath(nsName string) string {
	return strings.ReplaceAll(nsName, ".", string(filepath.Separator))
}

// Resolve finds nsName on the classpath, checking each root in order for
// `<path>.clj` then `<path>.cljc` (spec.md §6.2). Reload bypasses the
// cache and re-reads the file from disk.
func (r *Resolver) Resolve(nsName string, reload bool) (path, content string, err error) {
	if reload {
		r.cache.Invalidate(nsName)
	}
	sf, err := r.cache.GetOrCompile(nsName, func() (sourceFile, error) {
		rel := nsPath(nsName)
		for _, root := range r.classpath {
			for _, ext := range []string{".clj", ".cljc"} {
				candidate := filepath.Join(root, rel+ext)
				data, readErr := os.ReadFile(candidate)
				if readErr == nil {
					return sourceFile{path: candidate, content: string(data)}, nil
				}
			}
		}
		return sourceFile{}, &value.Error{
			Code:     value.ErrIllegalState,
			Message:  "could not locate " + nsName + " on classpath",
			Position: -1,
		}
	})
	if err != nil {
		return "", "", err
	}
	return sf.path, sf.content, nil
}

// RequireOptions holds the parsed vector-form clauses of a single require
// entry (spec.md §4.6: "Vector form accepts :as alias, :refer [syms] or
// :refer :all").
type RequireOptions struct {
	As        string
	ReferAll  bool
	Refer     []string
	Only      []string
	Reload    bool
	ReloadAll bool
}

// RequireOption configures a RequireOptions, mirroring the teacher's
// parser.CompileOption.
type RequireOption func(*RequireOptions)

// As registers an alias for the required namespace (:as).
func As(alias string) RequireOption { return func(o *RequireOptions) { o.As = alias } }

// ReferAll copies every public var into the current namespace (:refer :all).
func ReferAll() RequireOption { return func(o *RequireOptions) { o.ReferAll = true } }

// Refer copies only the named public vars (:refer [syms]).
func Refer(syms ...string) RequireOption {
	return func(o *RequireOptions) { o.Refer = syms }
}

// Only restricts a :refer :all to the named vars (use's :only clause).
func Only(syms ...string) RequireOption {
	return func(o *RequireOptions) { o.Only = syms }
}

// Reload forces re-loading even if already loaded (:reload).
func Reload() RequireOption { return func(o *RequireOptions) { o.Reload = true } }

// ReloadAll forces re-loading of this namespace and its dependencies
// (:reload-all). This layer treats it the same as Reload — transitive
// dependency re-loading is the reader/analyzer chain's concern, not
// classpath resolution's.
func ReloadAll() RequireOption {
	return func(o *RequireOptions) { o.ReloadAll = true; o.Reload = true }
}

// Require loads nsName's source file once per runtime.Context unless
// Reload/ReloadAll is given, then applies any :as/:refer clauses against
// the current namespace (spec.md §4.6). resolver is typically the
// *Resolver returned by NewResolver; it is accepted here as the
// runtime.NamespaceResolver interface so callers can also pass
// rt.Resolver() directly.
func Require(rt *runtime.Context, resolver runtime.NamespaceResolver, nsName string, opts ...RequireOption) error {
	var o RequireOptions
	for _, apply := range opts {
		apply(&o)
	}

	already := rt.IsLoaded(nsName)
	if !already || o.Reload {
		path, content, err := resolver.Resolve(nsName, o.Reload)
		if err != nil {
			return err
		}
		if err := rt.LoadSource(nsName, path, content); err != nil {
			return err
		}
		rt.MarkLoaded(nsName)
	}

	target := rt.Env().CreateNs(nsName)
	current := rt.Env().Current()

	if o.As != "" {
		current.AddAlias(o.As, target)
	}
	if len(o.Refer) > 0 {
		current.Refer(target, o.Refer, nil, nil)
	} else if o.ReferAll {
		current.Refer(target, o.Only, nil, nil)
	}
	return nil
}

// Use is require plus an implicit :refer :all, optionally narrowed by
// Only (spec.md §4.6: "use = require + :refer :all (optionally filtered
// by :only)").
func Use(rt *runtime.Context, resolver runtime.NamespaceResolver, nsName string, opts ...RequireOption) error {
	return Require(rt, resolver, nsName, append(opts, ReferAll())...)
}

// Alias registers short as a local name for target within the current
// namespace (spec.md §4.6).
func Alias(rt *runtime.Context, short, target string) error {
	targetNs, ok := rt.Env().FindNs(target)
	if !ok {
		return &value.Error{Code: value.ErrIllegalState, Message: "no such namespace: " + target, Position: -1}
	}
	rt.Env().Current().AddAlias(short, targetNs)
	return nil
}

// InNs switches the current namespace, creating it if missing (spec.md
// §4.6). clojure.core is never replaced out from under existing
// references — switching away from it leaves the Namespace object
// itself, and every Var interned into it, untouched.
func InNs(rt *runtime.Context, nsName string) *ns.Namespace {
	return rt.Env().InNs(nsName)
}

// LoadFile hands an explicit file's content to the reader/analyzer/
// evaluator chain without classpath resolution or loaded-libs tracking —
// the direct-path counterpart to Require (Clojure's load-file takes a
// literal file path, not a namespace name).
func LoadFile(rt *runtime.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &value.Error{Code: value.ErrIllegalState, Message: "load-file: " + err.Error(), Position: -1}
	}
	return rt.LoadSource(path, path, string(data))
}
