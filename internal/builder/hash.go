package builder

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strconv"

	"golang.org/x/crypto/sha3"

	"github.com/justyntemme/renamer/internal/debug"
	"github.com/justyntemme/renamer/internal/imagehash"
)

// HashAlgorithm selects the digest used by FileHash. Values are stored in
// settings files and follow the numbering older releases wrote.
type HashAlgorithm int

const (
	HashMD5     HashAlgorithm = 1
	HashSHA1    HashAlgorithm = 2
	HashSHA224  HashAlgorithm = 3
	HashSHA256  HashAlgorithm = 4
	HashSHA3224 HashAlgorithm = 11
	HashSHA3256 HashAlgorithm = 12
)

// HashAlgorithms lists the supported algorithms in menu order.
var HashAlgorithms = []HashAlgorithm{HashSHA224, HashSHA256, HashSHA3224, HashSHA3256, HashMD5, HashSHA1}

func (a HashAlgorithm) String() string {
	switch a {
	case HashMD5:
		return "MD5"
	case HashSHA1:
		return "SHA1"
	case HashSHA224:
		return "SHA2-224"
	case HashSHA256:
		return "SHA2-256"
	case HashSHA3224:
		return "SHA3-224"
	case HashSHA3256:
		return "SHA3-256"
	default:
		return "Unknown"
	}
}

// Valid reports whether a is a supported algorithm.
func (a HashAlgorithm) Valid() bool {
	for _, h := range HashAlgorithms {
		if h == a {
			return true
		}
	}
	return false
}

func (a HashAlgorithm) newHash() hash.Hash {
	switch a {
	case HashSHA1:
		return sha1.New()
	case HashSHA224:
		return sha256.New224()
	case HashSHA256:
		return sha256.New()
	case HashSHA3224:
		return sha3.New224()
	case HashSHA3256:
		return sha3.New256()
	default:
		return md5.New()
	}
}

// HashFile returns the hex digest of the file at path.
func HashFile(path string, alg HashAlgorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := alg.newHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileHash inserts the hex digest of the entity's content. The digest is
// cached on the entity. Unreadable files contribute nothing.
type FileHash struct {
	insertBase
	Algorithm HashAlgorithm
	info      FileInfo
}

func NewFileHash(alg HashAlgorithm, pos Position) *FileHash {
	return &FileHash{insertBase: insertBase{Pos: pos}, Algorithm: alg}
}

func (b *FileHash) Kind() Kind                { return KindFileHash }
func (b *FileHash) Reset()                    {}
func (b *FileHash) SetFileInfo(info FileInfo) { b.info = info }
func (b *FileHash) Describe() string          { return b.Pos.label(b.Algorithm.String()) }

func (b *FileHash) Build(result string) string {
	if b.info == nil || b.info.IsDir() {
		return result
	}
	digest := b.info.HashHex(b.Algorithm)
	if digest == "" {
		var err error
		digest, err = HashFile(b.info.FullPath(), b.Algorithm)
		if err != nil {
			debug.Log(debug.BUILD, "FileHash: %s: %v", b.info.FullPath(), err)
			return result
		}
		b.info.SetHashHex(b.Algorithm, digest)
	}
	return insertAt(result, b.Pos, digest)
}

func (b *FileHash) LoadSettings(s Settings) {
	s.BeginGroup(groupFileHash)
	b.loadPosition(s)
	b.Algorithm = HashAlgorithm(intValue(s, keyAlgorithm, int(HashMD5)))
	if !b.Algorithm.Valid() {
		b.Algorithm = HashMD5
	}
	s.EndGroup()
}

func (b *FileHash) SaveSettings(s Settings) {
	s.BeginGroup(groupFileHash)
	b.savePosition(s)
	s.SetValue(keyAlgorithm, strconv.Itoa(int(b.Algorithm)))
	s.EndGroup()
}

func (b *FileHash) Clone() Builder { return NewFileHash(b.Algorithm, b.Pos) }

// ImageHash inserts a perceptual hash of the entity's image content,
// cached on the entity. Files that do not decode as images contribute nothing.
type ImageHash struct {
	insertBase
	info FileInfo
}

func NewImageHash(pos Position) *ImageHash {
	return &ImageHash{insertBase: insertBase{Pos: pos}}
}

func (b *ImageHash) Kind() Kind                { return KindImageHash }
func (b *ImageHash) Reset()                    {}
func (b *ImageHash) SetFileInfo(info FileInfo) { b.info = info }
func (b *ImageHash) Describe() string          { return b.Pos.label("Image Hash") }

func (b *ImageHash) Build(result string) string {
	if b.info == nil || b.info.IsDir() {
		return result
	}
	h := b.info.ImageHash()
	if h == "" {
		sum, err := imagehash.File(b.info.FullPath())
		if err != nil {
			debug.Log(debug.BUILD, "ImageHash: %s: %v", b.info.FullPath(), err)
			return result
		}
		h = sum.String()
		b.info.SetImageHash(h)
	}
	return insertAt(result, b.Pos, h)
}

func (b *ImageHash) LoadSettings(s Settings) {
	s.BeginGroup(groupImageHash)
	b.loadPosition(s)
	s.EndGroup()
}

func (b *ImageHash) SaveSettings(s Settings) {
	s.BeginGroup(groupImageHash)
	b.savePosition(s)
	s.EndGroup()
}

func (b *ImageHash) Clone() Builder { return NewImageHash(b.Pos) }
