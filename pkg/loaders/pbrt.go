package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ErrUnsupportedStatement is returned for PBRT statements outside the sphere subset
var ErrUnsupportedStatement = errors.New("unsupported PBRT statement")

// maxPathLength bounds the scene file paths LoadPBRT accepts
const maxPathLength = 512

// PBRTStatement represents a parsed PBRT statement
type PBRTStatement struct {
	Type       string               // Statement type (Camera, Material, Shape, etc.)
	Subtype    string               // Subtype (perspective, diffuse, sphere, etc.)
	Args       []string             // Bare numeric arguments (LookAt, Translate)
	Parameters map[string]PBRTParam // Named parameters

	// Graphics state captured when a Shape is declared
	MaterialIndex int       // Index into PBRTScene.Materials, -1 if none is active
	Translation   core.Vec3 // Accumulated Translate of the enclosing blocks
}

// PBRTParam represents a parameter with type and value(s)
type PBRTParam struct {
	Type   string   // Parameter type (float, integer, rgb, ...)
	Values []string // Parameter values as strings
}

// PBRTScene contains all parsed PBRT scene data
type PBRTScene struct {
	// Pre-WorldBegin statements
	Camera   *PBRTStatement
	LookAt   *core.Vec3 // Eye position
	LookAtTo *core.Vec3 // Look at target
	LookAtUp *core.Vec3 // Up vector
	Film     *PBRTStatement
	Sampler  *PBRTStatement

	// World content
	Materials []PBRTStatement
	Shapes    []PBRTStatement
}

// graphicsState is saved by AttributeBegin and restored by AttributeEnd
type graphicsState struct {
	materialIndex int
	translation   core.Vec3
}

// PBRTParser holds the state for parsing one PBRT stream
type PBRTParser struct {
	scene          *PBRTScene
	state          graphicsState
	stateStack     []graphicsState
	inWorld        bool
	statementLines []string
	lineNumber     int
}

// NewPBRTParser creates a new PBRT parser instance
func NewPBRTParser() *PBRTParser {
	return &PBRTParser{
		scene: &PBRTScene{
			Materials: make([]PBRTStatement, 0),
			Shapes:    make([]PBRTStatement, 0),
		},
		state: graphicsState{materialIndex: -1},
	}
}

// ParsePBRT parses PBRT content from an io.Reader
func ParsePBRT(reader io.Reader) (*PBRTScene, error) {
	parser := NewPBRTParser()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		parser.lineNumber++
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", parser.lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	if err := parser.finalize(); err != nil {
		return nil, err
	}

	return parser.scene, nil
}

// LoadPBRT loads and parses a PBRT scene file
func LoadPBRT(filename string) (*PBRTScene, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBRT file: %w", err)
	}
	defer file.Close()

	scene, err := ParsePBRT(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return scene, nil
}

// validateFilePath rejects paths that cannot be PBRT scene files
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.Clean(filename)
	if len(cleanPath) > maxPathLength {
		return fmt.Errorf("file path too long: maximum %d characters allowed", maxPathLength)
	}
	if !strings.EqualFold(filepath.Ext(cleanPath), ".pbrt") {
		return fmt.Errorf("invalid file type: only .pbrt files are allowed")
	}

	return nil
}

// processLine handles one physical line, joining multi-line statements
func (p *PBRTParser) processLine(line string) error {
	line = strings.TrimSpace(stripComment(line))
	if line == "" {
		return nil
	}

	switch line {
	case "WorldBegin":
		if err := p.flush(); err != nil {
			return err
		}
		p.inWorld = true
		p.state = graphicsState{materialIndex: -1}
		return nil
	case "WorldEnd":
		if err := p.flush(); err != nil {
			return err
		}
		p.inWorld = false
		return nil
	case "AttributeBegin":
		if err := p.flush(); err != nil {
			return err
		}
		p.stateStack = append(p.stateStack, p.state)
		return nil
	case "AttributeEnd":
		if err := p.flush(); err != nil {
			return err
		}
		if len(p.stateStack) == 0 {
			return fmt.Errorf("AttributeEnd without matching AttributeBegin")
		}
		p.state = p.stateStack[len(p.stateStack)-1]
		p.stateStack = p.stateStack[:len(p.stateStack)-1]
		return nil
	}

	if isStatementStart(line) {
		if err := p.flush(); err != nil {
			return err
		}
		p.statementLines = []string{line}
		return nil
	}

	if len(p.statementLines) == 0 {
		return fmt.Errorf("unexpected continuation line: %s", line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

// stripComment drops a trailing # comment that is not inside a quoted string
func stripComment(line string) string {
	inQuote := false
	for i, r := range line {
		switch r {
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

// flush parses and applies the statement accumulated so far
func (p *PBRTParser) flush() error {
	if len(p.statementLines) == 0 {
		return nil
	}
	fullStatement := strings.Join(p.statementLines, " ")
	p.statementLines = nil

	stmt, err := parseStatement(fullStatement)
	if err != nil {
		return fmt.Errorf("error parsing statement '%s': %w", fullStatement, err)
	}
	return p.routeStatement(stmt)
}

// finalize processes the trailing statement and checks block nesting
func (p *PBRTParser) finalize() error {
	if err := p.flush(); err != nil {
		return fmt.Errorf("at end of file: %w", err)
	}
	if len(p.stateStack) > 0 {
		return fmt.Errorf("%d unclosed AttributeBegin block(s)", len(p.stateStack))
	}
	return nil
}

// routeStatement applies a statement to the scene or the graphics state
func (p *PBRTParser) routeStatement(stmt *PBRTStatement) error {
	switch stmt.Type {
	case "LookAt":
		return parseLookAt(stmt, p.scene)
	case "Camera":
		p.scene.Camera = stmt
	case "Film":
		p.scene.Film = stmt
	case "Sampler":
		p.scene.Sampler = stmt
	case "Integrator":
		// The path depth is fixed by the renderer
	case "Material":
		if !p.inWorld {
			return fmt.Errorf("Material outside WorldBegin/WorldEnd")
		}
		p.scene.Materials = append(p.scene.Materials, *stmt)
		p.state.materialIndex = len(p.scene.Materials) - 1
	case "Translate":
		if !p.inWorld {
			return fmt.Errorf("%w: camera transforms", ErrUnsupportedStatement)
		}
		offset, err := parseVec3(stmt.Args)
		if err != nil {
			return fmt.Errorf("invalid Translate: %w", err)
		}
		p.state.translation = p.state.translation.Add(offset)
	case "Shape":
		if !p.inWorld {
			return fmt.Errorf("Shape outside WorldBegin/WorldEnd")
		}
		if stmt.Subtype != "sphere" {
			return fmt.Errorf("%w: shape %q", ErrUnsupportedStatement, stmt.Subtype)
		}
		stmt.MaterialIndex = p.state.materialIndex
		stmt.Translation = p.state.translation
		p.scene.Shapes = append(p.scene.Shapes, *stmt)
	default:
		// Lights, Rotate, Scale, Transform
		return fmt.Errorf("%w: %s", ErrUnsupportedStatement, stmt.Type)
	}
	return nil
}

// parseLookAt parses a LookAt statement into scene camera vectors
func parseLookAt(stmt *PBRTStatement, scene *PBRTScene) error {
	// eyex eyey eyez atx aty atz upx upy upz
	if len(stmt.Args) != 9 {
		return fmt.Errorf("LookAt requires 9 values, got %d", len(stmt.Args))
	}

	eye, err := parseVec3(stmt.Args[0:3])
	if err != nil {
		return fmt.Errorf("invalid LookAt eye: %w", err)
	}
	at, err := parseVec3(stmt.Args[3:6])
	if err != nil {
		return fmt.Errorf("invalid LookAt target: %w", err)
	}
	up, err := parseVec3(stmt.Args[6:9])
	if err != nil {
		return fmt.Errorf("invalid LookAt up vector: %w", err)
	}

	scene.LookAt = &eye
	scene.LookAtTo = &at
	scene.LookAtUp = &up
	return nil
}

func parseVec3(values []string) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 values, got %d", len(values))
	}
	var xyz [3]float32
	for i, s := range values {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid coordinate '%s': %w", s, err)
		}
		xyz[i] = float32(f)
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

// token is one lexical element of a statement
type token struct {
	text   string
	quoted bool
}

// tokenize splits a statement into bare words, quoted strings and brackets.
// A '#' outside quotes ends the statement.
func tokenize(line string) ([]token, error) {
	var tokens []token
	var current strings.Builder
	inQuotes := false

	emit := func() {
		if current.Len() > 0 {
			tokens = append(tokens, token{text: current.String()})
			current.Reset()
		}
	}

	for _, char := range line {
		if inQuotes {
			if char == '"' {
				tokens = append(tokens, token{text: current.String(), quoted: true})
				current.Reset()
				inQuotes = false
			} else {
				current.WriteRune(char)
			}
			continue
		}

		switch char {
		case '"':
			emit()
			inQuotes = true
		case '[', ']':
			emit()
			tokens = append(tokens, token{text: string(char)})
		case ' ', '\t', '\r':
			emit()
		case '#':
			emit()
			return tokens, nil
		default:
			current.WriteRune(char)
		}
	}

	if inQuotes {
		return nil, fmt.Errorf("unterminated string")
	}
	emit()
	return tokens, nil
}

// parseStatement parses a single PBRT statement
func parseStatement(line string) (*PBRTStatement, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 || tokens[0].quoted {
		return nil, fmt.Errorf("invalid statement format")
	}

	stmt := &PBRTStatement{
		Type:          tokens[0].text,
		Parameters:    make(map[string]PBRTParam),
		MaterialIndex: -1,
	}
	rest := tokens[1:]

	// Bare argument lists carry no subtype or named parameters
	switch stmt.Type {
	case "LookAt", "Translate", "Rotate", "Scale", "Transform":
		for _, tok := range rest {
			if tok.quoted {
				return nil, fmt.Errorf("unexpected string %q in %s", tok.text, stmt.Type)
			}
			if tok.text == "[" || tok.text == "]" {
				continue
			}
			stmt.Args = append(stmt.Args, tok.text)
		}
		return stmt, nil
	}

	if len(rest) == 0 || !rest[0].quoted {
		return nil, fmt.Errorf("%s requires a quoted type", stmt.Type)
	}
	stmt.Subtype = rest[0].text
	rest = rest[1:]

	for len(rest) > 0 {
		def := rest[0]
		if !def.quoted {
			return nil, fmt.Errorf("expected parameter declaration, got %q", def.text)
		}
		defParts := strings.Fields(def.text)
		if len(defParts) != 2 {
			return nil, fmt.Errorf("invalid parameter declaration %q", def.text)
		}
		rest = rest[1:]

		var values []string
		switch {
		case len(rest) == 0:
			return nil, fmt.Errorf("parameter %q has no value", defParts[1])
		case rest[0].text == "[" && !rest[0].quoted:
			end := 1
			for end < len(rest) && !(rest[end].text == "]" && !rest[end].quoted) {
				values = append(values, rest[end].text)
				end++
			}
			if end == len(rest) {
				return nil, fmt.Errorf("unterminated array for parameter %q", defParts[1])
			}
			rest = rest[end+1:]
		default:
			values = []string{rest[0].text}
			rest = rest[1:]
		}

		if err := checkParamValues(defParts[0], values); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", defParts[1], err)
		}
		stmt.Parameters[defParts[1]] = PBRTParam{Type: defParts[0], Values: values}
	}

	return stmt, nil
}

// checkParamValues rejects numeric parameters whose values do not parse.
// Other parameter types are kept as raw strings.
func checkParamValues(paramType string, values []string) error {
	switch paramType {
	case "float":
		for _, v := range values {
			if _, err := strconv.ParseFloat(v, 32); err != nil {
				return fmt.Errorf("invalid float %q", v)
			}
		}
	case "integer":
		for _, v := range values {
			if _, err := strconv.Atoi(v); err != nil {
				return fmt.Errorf("invalid integer %q", v)
			}
		}
	case "rgb":
		if _, err := parseVec3(values); err != nil {
			return err
		}
	}
	return nil
}

// GetFloatParam extracts a float parameter from a PBRT statement
func (stmt *PBRTStatement) GetFloatParam(name string) (float32, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.ParseFloat(param.Values[0], 32)
	if err != nil {
		return 0, false
	}
	return float32(val), true
}

// GetIntParam extracts an integer parameter from a PBRT statement
func (stmt *PBRTStatement) GetIntParam(name string) (int, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.Atoi(param.Values[0])
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetRGBParam extracts an RGB color parameter from a PBRT statement
func (stmt *PBRTStatement) GetRGBParam(name string) (core.Vec3, bool) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return core.Vec3{}, false
	}
	rgb, err := parseVec3(param.Values)
	if err != nil {
		return core.Vec3{}, false
	}
	return rgb, true
}

// isStatementStart determines if a line starts a new PBRT statement
func isStatementStart(line string) bool {
	statementTypes := []string{
		"Camera", "Film", "Sampler", "Integrator", "LookAt",
		"Material", "Shape", "LightSource", "AreaLightSource",
		"Translate", "Rotate", "Scale", "Transform",
	}

	for _, stmt := range statementTypes {
		if strings.HasPrefix(line, stmt+" ") || strings.HasPrefix(line, stmt+"\t") || line == stmt {
			return true
		}
	}
	return false
}
