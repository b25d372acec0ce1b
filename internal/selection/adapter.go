package selection

import (
	"fmt"
	"mime"
	"net/url"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sys/unix"
)

// Adapter resolves Raw selection records into Info records. It is safe
// for concurrent use; it holds no state (owner names are looked up per
// entry).
type Adapter struct{}

// NewAdapter constructs a selection adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Resolve queries metadata for each raw entry. Per spec.md §4.5, a query
// failure never drops the entry from the result: whatever was recoverable
// is kept, and a diagnostic is appended to messages. A single entry with
// an unparsable or virtual URI (e.g. a desktop-root pseudo-URI) yields an
// Info with only URI/Scheme populated.
func (a *Adapter) Resolve(raws []Raw) (infos []Info, messages []string) {
	infos = make([]Info, 0, len(raws))
	for _, raw := range raws {
		info, msg := a.resolveOne(raw)
		infos = append(infos, info)
		if msg != "" {
			messages = append(messages, msg)
		}
	}
	return infos, messages
}

func (a *Adapter) resolveOne(raw Raw) (Info, string) {
	u, err := url.Parse(raw.URI)
	if err != nil {
		return Info{URI: raw.URI}, fmt.Sprintf("selection: unparsable uri %q: %v", raw.URI, err)
	}

	info := Info{
		URI:    raw.URI,
		Scheme: strings.ToLower(u.Scheme),
		Host:   u.Hostname(),
		Port:   u.Port(),
	}
	if u.User != nil {
		info.User = u.User.Username()
	}

	if u.Path == "" {
		// No path component at all: a virtual/pseudo URI such as a
		// desktop-root placeholder. Nothing further to resolve.
		return info, ""
	}

	info.Basename = filepath.Base(u.Path)
	info.Dirname = filepath.Dir(u.Path)

	if info.Scheme != "file" {
		applyHint(&info, raw.Hint)
		if info.MimeType == "" {
			info.MimeType = mimeByExtension(info.Basename)
		}
		return info, ""
	}

	info.Path = u.Path
	fileType, mimeType, caps, owner, err := statLocal(info.Path)
	if err != nil {
		applyHint(&info, raw.Hint)
		return info, fmt.Sprintf("selection: stat %q: %v", info.Path, err)
	}
	info.FileType = fileType
	info.MimeType = mimeType
	info.CanRead, info.CanWrite, info.CanExecute = caps.read, caps.write, caps.execute
	info.Owner = owner
	return info, ""
}

func applyHint(info *Info, hint *Info) {
	if hint == nil {
		return
	}
	if hint.FileType != FileTypeUnknown {
		info.FileType = hint.FileType
	}
	if hint.MimeType != "" {
		info.MimeType = hint.MimeType
	}
	info.CanRead = hint.CanRead
	info.CanWrite = hint.CanWrite
	info.CanExecute = hint.CanExecute
	info.Owner = hint.Owner
}

type accessBits struct {
	read, write, execute bool
}

func statLocal(path string) (FileType, string, accessBits, string, error) {
	var stat unix.Stat_t
	if err := unix.Lstat(path, &stat); err != nil {
		return FileTypeUnknown, "", accessBits{}, "", err
	}

	ft := FileTypeRegular
	switch stat.Mode & unix.S_IFMT {
	case unix.S_IFLNK:
		ft = FileTypeSymlink
	case unix.S_IFDIR:
		ft = FileTypeDirectory
	case unix.S_IFCHR, unix.S_IFBLK, unix.S_IFIFO, unix.S_IFSOCK:
		ft = FileTypeSpecial
	}

	mimeType := ""
	if ft == FileTypeRegular {
		if m, err := mimetype.DetectFile(path); err == nil {
			mimeType = m.String()
		} else {
			mimeType = mimeByExtension(filepath.Base(path))
		}
	} else if ft == FileTypeDirectory {
		mimeType = "inode/directory"
	}

	caps := accessBits{
		read:    unix.Access(path, unix.R_OK) == nil,
		write:   unix.Access(path, unix.W_OK) == nil,
		execute: unix.Access(path, unix.X_OK) == nil,
	}

	owner := ownerName(stat.Uid)

	return ft, mimeType, caps, owner, nil
}

func mimeByExtension(basename string) string {
	if m := mime.TypeByExtension(filepath.Ext(basename)); m != "" {
		if idx := strings.Index(m, ";"); idx != -1 {
			return m[:idx]
		}
		return m
	}
	return "application/octet-stream"
}

func ownerName(uid uint32) string {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return ""
	}
	return u.Username
}
