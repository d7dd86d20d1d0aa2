package account

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"log"
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/darasahq/darasa/core"
	appfs "github.com/darasahq/darasa/fs"
)

// password policy
var (
	pwdMinLen     = 8
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceText   = "password must not contain whitespace"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimText = "password cannot be similar to account attributes"

	pwdNoCommonText = "password is too common"
	commonPasswords []string
)

func init() {
	loadCommonPasswords()
}

func loadCommonPasswords() {
	f, err := appfs.FS.Open("assets/common-passwords.txt.gz")
	if err != nil {
		log.Printf("account.loadCommonPasswords: %v", err)
		return
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		log.Printf("account.loadCommonPasswords: %v", err)
		return
	}
	defer zr.Close()

	scanner := bufio.NewScanner(zr)
	for scanner.Scan() {
		if pwd := strings.TrimSpace(scanner.Text()); pwd != "" {
			commonPasswords = append(commonPasswords, pwd)
		}
	}
	sort.Strings(commonPasswords)
}

func pwdError(text string) error {
	return core.NewValidationError(nil, core.FieldError{Field: "password", Error: text})
}

// checkPasswordPolicy enforces the account password policy: minimum length,
// no whitespace, not entirely numeric, not too similar to the account's own
// attributes and not in the common-passwords list.
func checkPasswordPolicy(pwd string, attrs ...string) error {
	if len(pwd) < pwdMinLen {
		return pwdError(pwdMinLenText)
	}

	allNum := true
	for _, r := range pwd {
		if unicode.IsSpace(r) {
			return pwdError(pwdNoSpaceText)
		}
		if !unicode.IsDigit(r) {
			allNum = false
		}
	}
	if allNum {
		return pwdError(pwdNotAllNumText)
	}

	lowPwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" {
			continue
		}
		matcher := difflib.NewMatcher(strings.Split(lowPwd, ""), strings.Split(attr, ""))
		if matcher.QuickRatio() >= pwdMaxSim {
			return pwdError(pwdAttrSimText)
		}
	}

	if i := sort.SearchStrings(commonPasswords, lowPwd); i < len(commonPasswords) && commonPasswords[i] == lowPwd {
		return pwdError(pwdNoCommonText)
	}
	return nil
}
