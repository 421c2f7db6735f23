// Package fingerprint computes the deterministic identity hash used to
// decide whether two findings denote the same underlying issue (spec §4.A).
//
// Grounded in ingestion_service.go's generateStableID, which hashes a
// colon/slash-joined tuple of stable fields with sha256 and hex-encodes it;
// SynApSec generalizes that one-category hash into the three
// category-specific tuples the spec requires.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/synapsec/core/internal/domain/entity"
)

// SAST computes the SAST fingerprint. Line numbers are deliberately omitted:
// code edits shift lines without changing the underlying issue identity.
func SAST(appCode, filePath, ruleID, branch string) string {
	return hash("SAST", appCode, filePath, ruleID, branch)
}

// SCA computes the SCA fingerprint. cveID is included because one
// package+version pair can carry multiple distinct CVEs.
func SCA(appCode, packageName, packageVersion, cveID string) string {
	return hash("SCA", appCode, packageName, packageVersion, cveID)
}

// DAST computes the DAST fingerprint. CWE is deliberately omitted: scanners
// may reclassify the same endpoint under a different weakness category.
func DAST(appCode, targetURL, method, parameter string) string {
	return hash("DAST", appCode, targetURL, method, parameter)
}

// hash joins the category with the raw fields verbatim (spec §4.A's formula
// operates on the stable fields as given, with no normalization step) and
// hashes the result.
func hash(category string, fields ...string) string {
	tuple := category + ":" + strings.Join(fields, ":")
	sum := sha256.Sum256([]byte(tuple))
	return hex.EncodeToString(sum[:])
}

// Of computes the fingerprint for a fully-populated ParsedFinding-shaped
// core+category pair, dispatching on category. appCode may be empty when no
// application has been resolved yet; empty fields join without error.
// cveID is the single CVE this finding was minted for (SCA rows fan out one
// finding per CVE per spec §4.C's Xray fan-out rule); it is ignored for
// other categories.
func Of(appCode string, category entity.Category, cveID string, sast *entity.SASTDetail, sca *entity.SCADetail, dast *entity.DASTDetail) string {
	switch category {
	case entity.CategorySAST:
		if sast == nil {
			return hash("SAST", appCode, "", "", "")
		}
		return SAST(appCode, sast.FilePath, sast.RuleID, sast.Branch)
	case entity.CategorySCA:
		if sca == nil {
			return hash("SCA", appCode, "", "", cveID)
		}
		return SCA(appCode, sca.PackageName, sca.PackageVersion, cveID)
	case entity.CategoryDAST:
		if dast == nil {
			return hash("DAST", appCode, "", "", "")
		}
		return DAST(appCode, dast.TargetURL, dast.Method, dast.Parameter)
	default:
		return hash(string(category), appCode)
	}
}
