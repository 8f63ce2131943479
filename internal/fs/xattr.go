package fs

import (
	"os"

	"github.com/restic/xattrctl/internal/debug"
	"github.com/restic/xattrctl/internal/errors"
	"github.com/restic/xattrctl/internal/xattr"
)

// Attribute is a single extended attribute.
type Attribute struct {
	Name  string `json:"name"`
	Value []byte `json:"value"`
}

// IsListPermissionError reports whether err is a failed attempt to list the
// attributes of a target the user may not read.
func IsListPermissionError(err error) bool {
	var xerr *xattr.Error
	if errors.As(err, &xerr) {
		switch xerr.Op {
		case "xattr.list", "xattr.llist", "xattr.flist":
			return errors.Is(xerr.Err, os.ErrPermission)
		}
	}
	return false
}

// Fill returns all extended attributes of t in the order reported by the
// kernel. A filesystem without xattr support has no attributes. Attributes
// that cannot be read are reported through warnf and skipped, attributes
// removed concurrently are skipped silently.
func Fill(t xattr.Target, ignoreListError bool, warnf func(format string, args ...interface{})) ([]Attribute, error) {
	names, err := t.List()
	debug.Log("Fill(%v) %v %v", t, names, err)
	if err != nil {
		if xattr.IsNotSupported(err) {
			return nil, nil
		}
		if ignoreListError && IsListPermissionError(err) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}

	attrs := make([]Attribute, 0, len(names))
	for _, name := range names {
		value, err := t.Get(name)
		if xattr.IsNotFound(err) {
			continue
		}
		if err != nil {
			warnf("can not obtain extended attribute %v for %v: %v\n", name, t, err)
			continue
		}

		attrs = append(attrs, Attribute{
			Name:  name,
			Value: value,
		})
	}

	return attrs, nil
}

// handleXattrErr drops failures caused by a filesystem without xattr
// support, so that restoring onto it is a no-op.
func handleXattrErr(err error) error {
	if err == nil || xattr.IsNotSupported(err) {
		return nil
	}
	return errors.WithStack(err)
}

// Restore makes the attributes of t that selectFilter accepts equal to the
// accepted entries of attrs: accepted attributes are written and other
// existing attributes accepted by selectFilter are removed. On a filesystem
// without xattr support nothing is done.
func Restore(t xattr.Target, attrs []Attribute, selectFilter func(name string) bool) error {
	expected := make(map[string]struct{}, len(attrs))
	for _, attr := range attrs {
		if !selectFilter(attr.Name) {
			continue
		}

		if err := t.Set(attr.Name, attr.Value); err != nil {
			return handleXattrErr(err)
		}
		expected[attr.Name] = struct{}{}
	}

	names, err := t.List()
	if err != nil {
		return handleXattrErr(err)
	}

	for _, name := range names {
		if _, ok := expected[name]; ok {
			continue
		}
		if !selectFilter(name) {
			continue
		}

		debug.Log("Restore(%v) removing unexpected attribute %v", t, name)
		err := t.Remove(name)
		// removed by someone else in the meantime
		if xattr.IsNotFound(err) {
			continue
		}
		if err != nil {
			return handleXattrErr(err)
		}
	}

	return nil
}
