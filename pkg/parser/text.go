// Copyright (c) 2025, The cirg Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// oemCharmaps maps OEM code pages to their decoders. Unknown pages fall back
// to 437.
var oemCharmaps = map[uint32]*charmap.Charmap{
	437:  charmap.CodePage437,
	850:  charmap.CodePage850,
	852:  charmap.CodePage852,
	855:  charmap.CodePage855,
	858:  charmap.CodePage858,
	860:  charmap.CodePage860,
	862:  charmap.CodePage862,
	863:  charmap.CodePage863,
	865:  charmap.CodePage865,
	866:  charmap.CodePage866,
	1252: charmap.Windows1252,
}

// OEMCharmap returns the decoder for an OEM code page.
func OEMCharmap(codePage uint32) *charmap.Charmap {
	if cm, ok := oemCharmaps[codePage]; ok {
		return cm
	}
	return charmap.CodePage437
}

// DecodeConsole converts console tool output to UTF-8. Input with a UTF-16
// or UTF-8 byte order mark is decoded accordingly, valid UTF-8 is returned
// unchanged, and anything else is read in the machine's OEM code page.
func DecodeConsole(b []byte) string {
	return decode(b, OEMCharmap(oemCodePage()))
}

// DecodeText is DecodeConsole with a Windows-1252 fallback, the encoding
// of WMI and registry descriptor strings.
func DecodeText(b []byte) string {
	return decode(b, charmap.Windows1252)
}

func decode(b []byte, fallback encoding.Encoding) string {
	hasBOM := bytes.HasPrefix(b, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(b, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	if !hasBOM && utf8.Valid(b) {
		return string(b)
	}

	dec := unicode.BOMOverride(fallback.NewDecoder())
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("\uFFFD")))
	}
	return string(out)
}

// DecodeDescriptor decodes a fixed-width descriptor, truncated at the first
// zero byte.
func DecodeDescriptor(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return DecodeText(b)
}
