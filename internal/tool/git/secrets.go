package git

import (
	"regexp"
	"strings"
)

// sensitiveNamePatterns match file names that must never be committed by
// add_all, regardless of content.
var sensitiveNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.env(\.|$)`),
	regexp.MustCompile(`\.pem$`),
	regexp.MustCompile(`id_rsa|id_dsa|id_ecdsa`),
	regexp.MustCompile(`credentials?$`),
	regexp.MustCompile(`\.aws/`),
	regexp.MustCompile(`\.ssh/`),
	regexp.MustCompile(`password\.(txt|yml|yaml|json)$`),
	regexp.MustCompile(`secrets?\.(txt|yml|yaml|json)$`),
	regexp.MustCompile(`\.key$`),
}

// secretContentPatterns match secret-shaped content: assignment-style keys
// and vendor-specific token prefixes.
var secretContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)api[_-]?key\s*=\s*["'][^"']+["']`),
	regexp.MustCompile(`(?i)password\s*=\s*["'][^"']+["']`),
	regexp.MustCompile(`(?i)token\s*=\s*["'][^"']+["']`),
	regexp.MustCompile(`sk_live_[a-zA-Z0-9]+`),
	regexp.MustCompile(`ghp_[a-zA-Z0-9]+`),
}

// isSensitiveName reports whether a path looks like a credential file.
func isSensitiveName(path string) bool {
	lower := strings.ToLower(path)
	for _, re := range sensitiveNamePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// containsSecrets scans a file's content for secret-shaped patterns. Files
// larger than the scan limit are not inspected (the coverage gap is
// intentional); unreadable files report false.
func (t *Tool) containsSecrets(relPath string) bool {
	abs, _, err := t.resolve(relPath)
	if err != nil {
		return false
	}

	info, err := t.fs.Stat(abs)
	if err != nil || info.IsDir() {
		return false
	}
	if info.Size() > t.config.Tools.SecretScanMaxFileSize {
		return false
	}

	data, err := t.fs.ReadFile(abs)
	if err != nil {
		return false
	}

	content := string(data)
	for _, re := range secretContentPatterns {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}
