package render

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

func fontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		winDir := os.Getenv("WINDIR")
		if winDir == "" {
			winDir = `C:\Windows`
		}
		return []string{filepath.Join(winDir, "Fonts")}
	case "darwin":
		return []string{
			"/Library/Fonts",
			"/System/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	default:
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".fonts"),
		}
	}
}

// FindFontFile searches the platform font directories for a TTF or OTF file
// matching the family name, then for a generic fallback font. The second
// return is false when nothing was found.
func FindFontFile(family string) (string, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(family), " ", "")
	if path := searchFonts(func(fileName string) bool {
		lower := strings.ToLower(fileName)
		if !strings.HasSuffix(lower, ".ttf") && !strings.HasSuffix(lower, ".otf") {
			return false
		}
		return strings.Contains(strings.ReplaceAll(lower, " ", ""), normalized)
	}); path != "" {
		return path, true
	}

	fallbacks := map[string]bool{"arial.ttf": true, "dejavusans.ttf": true}
	if path := searchFonts(func(fileName string) bool {
		return fallbacks[strings.ToLower(fileName)]
	}); path != "" {
		return path, true
	}
	return "", false
}

func searchFonts(match func(fileName string) bool) string {
	for _, dir := range fontDirs() {
		found := ""
		_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() {
				return nil
			}
			if match(entry.Name()) {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// LoadFace loads a font face for the family at the given pixel size. When
// no usable system font is found it falls back to the builtin bitmap face
// so rendering always succeeds.
func LoadFace(family string, size int) font.Face {
	path, ok := FindFontFile(family)
	if !ok {
		return basicfont.Face7x13
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return basicfont.Face7x13
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
