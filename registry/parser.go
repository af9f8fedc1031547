package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/vkreg/xmltok"
)

// ParseOptions configures document parsing.
type ParseOptions struct {
	// APIs lists the accepted API variant names. Records whose api (or
	// supported) attribute names none of them are skipped.
	APIs []string
}

// DefaultParseOptions accepts the primary API variant only.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{APIs: []string{"vulkan"}}
}

type attrs map[string]string

type parser struct {
	tok  xmltok.Tokenizer
	apis []string
}

// ParseDocument parses one registry document into raw records.
//
// Structural problems never abort the parse: a shape that does not match
// restores the cursor and the next alternative is tried, and a truncated
// document simply ends early with the records parsed so far. The only
// failure is a malformed numeric literal.
func ParseDocument(src string, opts ParseOptions) (*Document, error) {
	p := &parser{tok: xmltok.New(src), apis: opts.APIs}
	doc := &Document{}

	p.skipText()
	_, selfClosed, ok := p.tryOpen("registry")
	if !ok {
		return nil, fmt.Errorf("registry: missing root element")
	}
	if selfClosed {
		return doc, nil
	}

	for {
		p.skipText()
		name, ea, empty, ok := p.tryOpenAny()
		if !ok {
			break
		}
		var err error
		switch name {
		case "platforms":
			err = p.parsePlatforms(doc, empty)
		case "tags":
			err = p.parseTags(doc, empty)
		case "types":
			err = p.parseTypes(doc, empty)
		case "enums":
			err = p.parseEnums(doc, ea, empty)
		case "commands":
			err = p.parseCommands(doc, empty)
		case "feature":
			err = p.parseFeature(doc, ea, empty)
		case "extensions":
			err = p.parseExtensions(doc, empty)
		case "spirvextensions":
			err = p.parseSPIRV(&doc.SPIRVExtensions, "spirvextension", empty)
		case "spirvcapabilities":
			err = p.parseSPIRV(&doc.SPIRVCapabilities, "spirvcapability", empty)
		default:
			// formats, sync, videocodecs, comment and anything newer.
			if !empty {
				p.skipToEnd(name)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// allowed reports whether an api/supported attribute admits one of the
// accepted API variants. An absent attribute admits everything.
func (p *parser) allowed(attr string) bool {
	if attr == "" {
		return true
	}
	for _, want := range strings.Split(attr, ",") {
		for _, api := range p.apis {
			if want == api {
				return true
			}
		}
	}
	return false
}

// tryOpen matches a start tag with the given name, consuming its
// attribute list. On mismatch the cursor is restored and ok is false.
func (p *parser) tryOpen(name string) (attrs, bool, bool) {
	save := p.tok
	tk, ok := p.tok.Next()
	if !ok || tk.Kind != xmltok.TokenElemStart || tk.Name != name {
		p.tok = save
		return nil, false, false
	}
	a, empty, ok := p.attrList()
	if !ok {
		p.tok = save
		return nil, false, false
	}
	return a, empty, true
}

// tryOpenAny matches any start tag, consuming its attribute list.
func (p *parser) tryOpenAny() (string, attrs, bool, bool) {
	save := p.tok
	tk, ok := p.tok.Next()
	if !ok || tk.Kind != xmltok.TokenElemStart {
		p.tok = save
		return "", nil, false, false
	}
	a, empty, ok := p.attrList()
	if !ok {
		p.tok = save
		return "", nil, false, false
	}
	return tk.Name, a, empty, true
}

func (p *parser) attrList() (attrs, bool, bool) {
	var a attrs
	for {
		tk, ok := p.tok.Next()
		if !ok {
			return nil, false, false
		}
		switch tk.Kind {
		case xmltok.TokenAttr:
			if a == nil {
				a = make(attrs, 4)
			}
			a[tk.Name] = tk.Value
		case xmltok.TokenAttrListEnd:
			return a, false, true
		case xmltok.TokenAttrListEndEmpty:
			return a, true, true
		default:
			return nil, false, false
		}
	}
}

// end consumes the matching end tag, skipping leading text.
func (p *parser) end(name string) bool {
	save := p.tok
	p.skipText()
	tk, ok := p.tok.Next()
	if !ok || tk.Kind != xmltok.TokenElemEnd || tk.Name != name {
		p.tok = save
		return false
	}
	return true
}

// text consumes consecutive text tokens and returns them joined.
func (p *parser) text() string {
	var b strings.Builder
	for {
		save := p.tok
		tk, ok := p.tok.Next()
		if !ok || tk.Kind != xmltok.TokenText {
			p.tok = save
			return b.String()
		}
		b.WriteString(tk.Value)
	}
}

// skipText consumes text tokens without keeping them.
func (p *parser) skipText() {
	for {
		save := p.tok
		tk, ok := p.tok.Next()
		if !ok || tk.Kind != xmltok.TokenText {
			p.tok = save
			return
		}
	}
}

// skipToEnd consumes balanced content up to and including the end tag of
// the already-opened element.
func (p *parser) skipToEnd(name string) {
	depth := 1
	for depth > 0 {
		tk, ok := p.tok.Next()
		if !ok {
			return
		}
		switch tk.Kind {
		case xmltok.TokenElemStart:
			_, empty, ok := p.attrList()
			if !ok {
				return
			}
			if !empty {
				depth++
			}
		case xmltok.TokenElemEnd:
			depth--
		}
	}
}

// skipElement consumes one whole child element of any name, returning
// false if the next token is not a start tag.
func (p *parser) skipElement() bool {
	name, _, empty, ok := p.tryOpenAny()
	if !ok {
		return false
	}
	if !empty {
		p.skipToEnd(name)
	}
	return true
}

func (p *parser) parsePlatforms(doc *Document, empty bool) error {
	if empty {
		return nil
	}
	for {
		p.skipText()
		if a, childEmpty, ok := p.tryOpen("platform"); ok {
			doc.Platforms = append(doc.Platforms, Platform{Name: a["name"], Protect: a["protect"]})
			if !childEmpty {
				p.skipToEnd("platform")
			}
			continue
		}
		if p.end("platforms") {
			return nil
		}
		if !p.skipElement() {
			return nil
		}
	}
}

func (p *parser) parseTags(doc *Document, empty bool) error {
	if empty {
		return nil
	}
	for {
		p.skipText()
		if a, childEmpty, ok := p.tryOpen("tag"); ok {
			doc.Tags = append(doc.Tags, Tag{Name: a["name"], Author: a["author"], Contact: a["contact"]})
			if !childEmpty {
				p.skipToEnd("tag")
			}
			continue
		}
		if p.end("tags") {
			return nil
		}
		if !p.skipElement() {
			return nil
		}
	}
}

func (p *parser) parseTypes(doc *Document, empty bool) error {
	if empty {
		return nil
	}
	for {
		p.skipText()
		if a, childEmpty, ok := p.tryOpen("type"); ok {
			if !p.allowed(a["api"]) {
				if !childEmpty {
					p.skipToEnd("type")
				}
				continue
			}
			p.parseType(doc, a, childEmpty)
			continue
		}
		if p.end("types") {
			return nil
		}
		if !p.skipElement() {
			return nil
		}
	}
}

func (p *parser) parseType(doc *Document, a attrs, empty bool) {
	switch a["category"] {
	case "basetype":
		typeName, name := p.typeBody(a, empty)
		if name != "" {
			doc.Basetypes = append(doc.Basetypes, Basetype{Name: name, Type: typeName})
		}
	case "handle":
		if alias := a["alias"]; alias != "" {
			doc.HandleDefs = append(doc.HandleDefs, HandleDef{Name: a["name"], Alias: alias})
			p.finishType(empty)
			return
		}
		macro, name := p.typeBody(a, empty)
		if name != "" {
			doc.HandleDefs = append(doc.HandleDefs, HandleDef{
				Name:         name,
				Parent:       a["parent"],
				ObjTypeEnum:  a["objtypeenum"],
				Dispatchable: macro == "VK_DEFINE_HANDLE",
			})
		}
	case "bitmask":
		if alias := a["alias"]; alias != "" {
			doc.BitmaskDefs = append(doc.BitmaskDefs, BitmaskDef{Name: a["name"], Alias: alias})
			p.finishType(empty)
			return
		}
		typeName, name := p.typeBody(a, empty)
		bits := a["requires"]
		if bits == "" {
			bits = a["bitvalues"]
		}
		if name != "" {
			doc.BitmaskDefs = append(doc.BitmaskDefs, BitmaskDef{Name: name, Type: typeName, Bits: bits})
		}
	case "enum":
		doc.EnumDecls = append(doc.EnumDecls, EnumDecl{Name: a["name"], Alias: a["alias"]})
		p.finishType(empty)
	case "funcpointer":
		p.parseFuncPointer(doc, empty)
	case "struct", "union":
		p.parseStruct(doc, a, empty)
	default:
		// include, define, and external types pulled in via requires=.
		// External types stay undefined and surface in the final
		// unresolved report.
		p.finishType(empty)
	}
}

func (p *parser) finishType(empty bool) {
	if !empty {
		p.skipToEnd("type")
	}
}

// typeBody scans a type element body of the shape
//
//	typedef <type>uint32_t</type> <name>VkBool32</name>;
//
// returning the embedded type and name texts. The name attribute wins
// over a name child when both are present.
func (p *parser) typeBody(a attrs, empty bool) (typeName, name string) {
	name = a["name"]
	if empty {
		return "", name
	}
	for {
		p.skipText()
		if _, tEmpty, ok := p.tryOpen("type"); ok {
			if !tEmpty {
				typeName = strings.TrimSpace(p.text())
				p.end("type")
			}
			continue
		}
		if _, nEmpty, ok := p.tryOpen("name"); ok {
			if !nEmpty {
				if n := strings.TrimSpace(p.text()); name == "" {
					name = n
				}
				p.end("name")
			}
			continue
		}
		if p.end("type") {
			return typeName, name
		}
		if !p.skipElement() {
			return typeName, name
		}
	}
}

// parseFuncPointer records the name and return type of a function
// pointer typedef; the parameter list is skipped.
func (p *parser) parseFuncPointer(doc *Document, empty bool) {
	if empty {
		return
	}
	ret := ""
	name := ""
	// Leading text is "typedef <ret> (VKAPI_PTR *".
	lead := strings.Fields(p.text())
	if len(lead) >= 2 && lead[0] == "typedef" {
		ret = strings.TrimSuffix(lead[1], "*")
	}
	for {
		p.skipText()
		if _, nEmpty, ok := p.tryOpen("name"); ok {
			if !nEmpty {
				name = strings.TrimSpace(p.text())
				p.end("name")
			}
			continue
		}
		if p.end("type") {
			break
		}
		if !p.skipElement() {
			break
		}
	}
	if name != "" {
		doc.FuncPointers = append(doc.FuncPointers, FuncPointer{Name: name, Return: ret})
	}
}

func (p *parser) parseStruct(doc *Document, a attrs, empty bool) {
	def := StructDef{
		Name:           a["name"],
		Alias:          a["alias"],
		Union:          a["category"] == "union",
		ReturnedOnly:   parseBool(a["returnedonly"]),
		AllowDuplicate: parseBool(a["allowduplicate"]),
	}
	if ext := a["structextends"]; ext != "" {
		def.Extends = strings.Split(ext, ",")
	}
	if empty || def.Alias != "" {
		p.finishType(empty)
		doc.Structs = append(doc.Structs, def)
		return
	}
	for {
		p.skipText()
		if ma, mEmpty, ok := p.tryOpen("member"); ok {
			if !p.allowed(ma["api"]) {
				if !mEmpty {
					p.skipToEnd("member")
				}
				continue
			}
			m := p.declarator("member", ma, mEmpty)
			def.Members = append(def.Members, m)
			continue
		}
		if p.end("type") {
			break
		}
		if !p.skipElement() {
			break
		}
	}
	doc.Structs = append(doc.Structs, def)
}

// declarator parses one member/param/proto body into its raw fragments:
// text before the type child is the prefix, text between type and name
// the pointer suffix, and text after the name the array dimensions or
// bit-field width.
func (p *parser) declarator(closing string, a attrs, empty bool) MemberDef {
	m := MemberDef{
		Len:        a["len"],
		AltLen:     a["altlen"],
		Optional:   a["optional"],
		ExternSync: a["externsync"],
		Selector:   a["selector"],
		Selection:  a["selection"],
		Values:     a["values"],
		LimitType:  a["limittype"],
		API:        a["api"],
	}
	if empty {
		return m
	}

	var prefix, suffix, tail strings.Builder
	stage := 0 // 0 before type, 1 before name, 2 after name
	for {
		if _, tEmpty, ok := p.tryOpen("type"); ok {
			if !tEmpty {
				m.Type = strings.TrimSpace(p.text())
				p.end("type")
			}
			stage = 1
			continue
		}
		if _, nEmpty, ok := p.tryOpen("name"); ok {
			if !nEmpty {
				m.Name = strings.TrimSpace(p.text())
				p.end("name")
			}
			stage = 2
			continue
		}
		if _, eEmpty, ok := p.tryOpen("enum"); ok {
			// A named constant inside the array brackets.
			if !eEmpty {
				tail.WriteString(p.text())
				p.end("enum")
			}
			continue
		}
		if _, cEmpty, ok := p.tryOpen("comment"); ok {
			if !cEmpty {
				p.skipToEnd("comment")
			}
			continue
		}
		save := p.tok
		tk, ok := p.tok.Next()
		if !ok {
			break
		}
		if tk.Kind == xmltok.TokenElemEnd && tk.Name == closing {
			break
		}
		if tk.Kind == xmltok.TokenText {
			switch stage {
			case 0:
				prefix.WriteString(tk.Value)
			case 1:
				suffix.WriteString(tk.Value)
			default:
				tail.WriteString(tk.Value)
			}
			continue
		}
		// Unknown child element or stray token: restore and skip it whole.
		p.tok = save
		if !p.skipElement() {
			p.tok.Next()
		}
	}

	m.Prefix = strings.TrimSpace(prefix.String())
	m.Suffix = strings.TrimSpace(suffix.String())
	t := strings.TrimSpace(tail.String())
	if i := strings.IndexByte(t, ':'); i >= 0 {
		if w, err := strconv.Atoi(strings.TrimSpace(t[i+1:])); err == nil {
			m.BitWidth = w
		}
		t = strings.TrimSpace(t[:i])
	}
	m.Dims = t
	return m
}

func (p *parser) parseEnums(doc *Document, a attrs, empty bool) error {
	blk := EnumBlock{
		Name:     a["name"],
		Type:     a["type"],
		BitWidth: 32,
	}
	if blk.Type == "" {
		blk.Type = "constants"
	}
	if bw := a["bitwidth"]; bw != "" {
		w, err := parseInt(bw)
		if err != nil {
			return err
		}
		blk.BitWidth = int(w)
	}
	if !empty {
		for {
			p.skipText()
			if ea, eEmpty, ok := p.tryOpen("enum"); ok {
				if !eEmpty {
					p.skipToEnd("enum")
				}
				if !p.allowed(ea["api"]) {
					continue
				}
				item, err := p.enumItem(ea)
				if err != nil {
					return err
				}
				blk.Items = append(blk.Items, item)
				continue
			}
			if p.end("enums") {
				break
			}
			if !p.skipElement() {
				break
			}
		}
	}
	doc.EnumBlocks = append(doc.EnumBlocks, blk)
	return nil
}

func (p *parser) enumItem(a attrs) (EnumItem, error) {
	item := EnumItem{
		Name:  a["name"],
		Alias: a["alias"],
		Type:  a["type"],
		API:   a["api"],
	}
	if v := a["value"]; v != "" {
		cv, err := parseConstantValue(v)
		if err != nil {
			return item, err
		}
		item.Value = cv
		item.HasValue = true
	}
	if bp := a["bitpos"]; bp != "" {
		v, err := parseInt(bp)
		if err != nil {
			return item, err
		}
		item.BitPos = int(v)
		item.HasBitPos = true
	}
	return item, nil
}

func (p *parser) parseCommands(doc *Document, empty bool) error {
	if empty {
		return nil
	}
	for {
		p.skipText()
		if a, cEmpty, ok := p.tryOpen("command"); ok {
			if !p.allowed(a["api"]) {
				if !cEmpty {
					p.skipToEnd("command")
				}
				continue
			}
			p.parseCommand(doc, a, cEmpty)
			continue
		}
		if p.end("commands") {
			return nil
		}
		if !p.skipElement() {
			return nil
		}
	}
}

func (p *parser) parseCommand(doc *Document, a attrs, empty bool) {
	if alias := a["alias"]; alias != "" {
		doc.Commands = append(doc.Commands, CommandDef{Name: a["name"], Alias: alias})
		if !empty {
			p.skipToEnd("command")
		}
		return
	}
	cmd := CommandDef{
		SuccessCodes:   splitList(a["successcodes"]),
		ErrorCodes:     splitList(a["errorcodes"]),
		Queues:         splitList(a["queues"]),
		RenderPass:     a["renderpass"],
		CmdBufferLevel: a["cmdbufferlevel"],
	}
	if empty {
		return
	}
	for {
		p.skipText()
		if pa, pEmpty, ok := p.tryOpen("proto"); ok {
			cmd.Proto = p.declarator("proto", pa, pEmpty)
			cmd.Name = cmd.Proto.Name
			continue
		}
		if pa, pEmpty, ok := p.tryOpen("param"); ok {
			if !p.allowed(pa["api"]) {
				if !pEmpty {
					p.skipToEnd("param")
				}
				continue
			}
			cmd.Params = append(cmd.Params, p.declarator("param", pa, pEmpty))
			continue
		}
		if p.end("command") {
			break
		}
		if !p.skipElement() {
			break
		}
	}
	if cmd.Name != "" {
		doc.Commands = append(doc.Commands, cmd)
	}
}

func (p *parser) parseFeature(doc *Document, a attrs, empty bool) error {
	blk := ExtensionBlock{
		Feature: true,
		Name:    a["name"],
		Version: a["number"],
		API:     a["api"],
	}
	if !p.allowed(a["api"]) {
		if !empty {
			p.skipToEnd("feature")
		}
		return nil
	}
	if !empty {
		if err := p.parseRequires(&blk, "feature"); err != nil {
			return err
		}
	}
	doc.Blocks = append(doc.Blocks, blk)
	return nil
}

func (p *parser) parseExtensions(doc *Document, empty bool) error {
	if empty {
		return nil
	}
	for {
		p.skipText()
		if a, eEmpty, ok := p.tryOpen("extension"); ok {
			if err := p.parseExtension(doc, a, eEmpty); err != nil {
				return err
			}
			continue
		}
		if p.end("extensions") {
			return nil
		}
		if !p.skipElement() {
			return nil
		}
	}
}

func (p *parser) parseExtension(doc *Document, a attrs, empty bool) error {
	if !p.allowed(a["supported"]) {
		if !empty {
			p.skipToEnd("extension")
		}
		return nil
	}
	blk := ExtensionBlock{
		Name:         a["name"],
		API:          a["supported"],
		Type:         a["type"],
		Depends:      a["depends"],
		Platform:     a["platform"],
		Protect:      a["protect"],
		Author:       a["author"],
		Provisional:  parseBool(a["provisional"]),
		PromotedTo:   a["promotedto"],
		DeprecatedBy: a["deprecatedby"],
		ObsoletedBy:  a["obsoletedby"],
		SpecialUse:   splitList(a["specialuse"]),
	}
	if n := a["number"]; n != "" {
		v, err := parseInt(n)
		if err != nil {
			return err
		}
		blk.Number = int(v)
	}
	if !empty {
		if err := p.parseRequires(&blk, "extension"); err != nil {
			return err
		}
	}
	doc.Blocks = append(doc.Blocks, blk)
	return nil
}

func (p *parser) parseRequires(blk *ExtensionBlock, closing string) error {
	for {
		p.skipText()
		if a, rEmpty, ok := p.tryOpen("require"); ok {
			// Blocks restricted to another API variant are skipped whole,
			// before their contents are literal-parsed.
			if !p.allowed(a["api"]) {
				if !rEmpty {
					p.skipToEnd("require")
				}
				continue
			}
			rb := RequireBlock{Depends: a["depends"]}
			if !rEmpty {
				if err := p.parseRequireBlock(&rb); err != nil {
					return err
				}
			}
			blk.Requires = append(blk.Requires, rb)
			continue
		}
		if _, rEmpty, ok := p.tryOpen("remove"); ok {
			// Removal sections belong to other API variants.
			if !rEmpty {
				p.skipToEnd("remove")
			}
			continue
		}
		if p.end(closing) {
			return nil
		}
		if !p.skipElement() {
			return nil
		}
	}
}

func (p *parser) parseRequireBlock(rb *RequireBlock) error {
	for {
		p.skipText()
		if a, eEmpty, ok := p.tryOpen("enum"); ok {
			if !eEmpty {
				p.skipToEnd("enum")
			}
			if !p.allowed(a["api"]) {
				continue
			}
			item, err := p.requireItem(a)
			if err != nil {
				return err
			}
			rb.Enums = append(rb.Enums, item)
			continue
		}
		if a, tEmpty, ok := p.tryOpen("type"); ok {
			if !tEmpty {
				p.skipToEnd("type")
			}
			rb.Types = append(rb.Types, a["name"])
			continue
		}
		if a, cEmpty, ok := p.tryOpen("command"); ok {
			if !cEmpty {
				p.skipToEnd("command")
			}
			rb.Commands = append(rb.Commands, a["name"])
			continue
		}
		if a, fEmpty, ok := p.tryOpen("feature"); ok {
			if !fEmpty {
				p.skipToEnd("feature")
			}
			rb.Features = append(rb.Features, FeatureReq{
				Struct:  a["struct"],
				Field:   a["name"],
				Depends: a["depends"],
			})
			continue
		}
		if p.end("require") {
			return nil
		}
		if !p.skipElement() {
			return nil
		}
	}
}

func (p *parser) requireItem(a attrs) (RequireItem, error) {
	item := RequireItem{
		Name:    a["name"],
		Extends: a["extends"],
		Alias:   a["alias"],
		Type:    a["type"],
		API:     a["api"],
		Protect: a["protect"],
	}
	if v := a["value"]; v != "" {
		cv, err := parseConstantValue(v)
		if err != nil {
			return item, err
		}
		item.Value = cv
		item.HasValue = true
	}
	if bp := a["bitpos"]; bp != "" {
		v, err := parseInt(bp)
		if err != nil {
			return item, err
		}
		item.BitPos = int(v)
		item.HasBitPos = true
	}
	if off := a["offset"]; off != "" {
		v, err := parseInt(off)
		if err != nil {
			return item, err
		}
		item.Offset = int(v)
		item.HasOffset = true
	}
	item.Negative = a["dir"] == "-"
	if en := a["extnumber"]; en != "" {
		v, err := parseInt(en)
		if err != nil {
			return item, err
		}
		item.ExtNumber = int(v)
	}
	return item, nil
}

func (p *parser) parseSPIRV(list *[]SPIRVRequirement, childName string, empty bool) error {
	if empty {
		return nil
	}
	parent := childName + "s"
	for {
		p.skipText()
		if a, cEmpty, ok := p.tryOpen(childName); ok {
			req := SPIRVRequirement{Name: a["name"]}
			if !cEmpty {
				for {
					p.skipText()
					if ea, eEmpty, ok := p.tryOpen("enable"); ok {
						if !eEmpty {
							p.skipToEnd("enable")
						}
						req.Enables = append(req.Enables, SPIRVEnable{
							Version:   ea["version"],
							Extension: ea["extension"],
							Struct:    ea["struct"],
							Feature:   ea["feature"],
							Requires:  ea["requires"],
							Property:  ea["property"],
							Member:    ea["member"],
							Value:     ea["value"],
						})
						continue
					}
					if p.end(childName) {
						break
					}
					if !p.skipElement() {
						break
					}
				}
			}
			*list = append(*list, req)
			continue
		}
		if p.end(parent) {
			return nil
		}
		if !p.skipElement() {
			return nil
		}
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
