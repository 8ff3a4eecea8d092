package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OptionType defines the type of value an option expects
type OptionType int

const (
	OptionTypeBool OptionType = iota
	OptionTypeString
	OptionTypeInt
	OptionTypeList // Repeatable string option
)

// OptionDef defines a command-line option
type OptionDef struct {
	Long        string     // Long option name (without --)
	Short       string     // Short option name (without -)
	Type        OptionType // Type of value expected
	Description string     // Help description
	Default     string     // Default value
}

// ParsedOptions holds the parsed command-line options
type ParsedOptions struct {
	values        map[string]string
	lists         map[string][]string
	args          []string
	defs          map[string]*OptionDef
	order         []string          // Definition order, for usage output
	shortMap      map[string]string // Maps short options to long options
	explicitlySet map[string]bool   // Tracks which options were explicitly set
}

// NewParsedOptions creates a new options parser
func NewParsedOptions() *ParsedOptions {
	return &ParsedOptions{
		values:        make(map[string]string),
		lists:         make(map[string][]string),
		args:          []string{},
		defs:          make(map[string]*OptionDef),
		shortMap:      make(map[string]string),
		explicitlySet: make(map[string]bool),
	}
}

// DefineOption defines a command-line option
func (p *ParsedOptions) DefineOption(long, short string, optType OptionType, defaultValue, description string) {
	def := &OptionDef{
		Long:        long,
		Short:       short,
		Type:        optType,
		Description: description,
		Default:     defaultValue,
	}
	p.defs[long] = def
	p.order = append(p.order, long)
	if short != "" {
		p.shortMap[short] = long
	}

	if defaultValue != "" && optType != OptionTypeList {
		p.values[long] = defaultValue
	}
}

// Parse parses command-line arguments. Options and root paths may be mixed;
// everything after "--" is a root path.
func (p *ParsedOptions) Parse(args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			p.args = append(p.args, args[i+1:]...)
			return nil
		case strings.HasPrefix(arg, "--"):
			if err := p.parseLongOption(arg, args, &i); err != nil {
				return err
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			if err := p.parseShortOptions(arg, args, &i); err != nil {
				return err
			}
		default:
			p.args = append(p.args, arg)
		}
	}

	return nil
}

// set stores a value for an option, appending for list options
func (p *ParsedOptions) set(def *OptionDef, value string) error {
	if def.Type == OptionTypeInt {
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value for --%s: %s", def.Long, value)
		}
	}
	if def.Type == OptionTypeList {
		p.lists[def.Long] = append(p.lists[def.Long], value)
	} else {
		p.values[def.Long] = value
	}
	p.explicitlySet[def.Long] = true
	return nil
}

// nextValue consumes the argument after *i as an option value
func nextValue(args []string, i *int) (string, bool) {
	if *i+1 < len(args) && !strings.HasPrefix(args[*i+1], "-") {
		*i++
		return args[*i], true
	}
	return "", false
}

// parseLongOption parses a long option (--option, --option=value or --option value)
func (p *ParsedOptions) parseLongOption(arg string, args []string, i *int) error {
	optName := strings.TrimPrefix(arg, "--")
	var optValue string
	hasValue := false

	if equalPos := strings.Index(optName, "="); equalPos != -1 {
		optValue = optName[equalPos+1:]
		optName = optName[:equalPos]
		hasValue = true
	}

	def, exists := p.defs[optName]
	if !exists {
		return fmt.Errorf("unknown option: --%s", optName)
	}

	if def.Type == OptionTypeBool {
		if !hasValue {
			return p.set(def, "true")
		}
		switch optValue {
		case "true", "1":
			return p.set(def, "true")
		case "false", "0":
			return p.set(def, "false")
		default:
			return fmt.Errorf("invalid boolean value for --%s: %s", optName, optValue)
		}
	}

	if !hasValue {
		var ok bool
		if optValue, ok = nextValue(args, i); !ok {
			return fmt.Errorf("option --%s requires a value", optName)
		}
	}
	return p.set(def, optValue)
}

// parseShortOptions parses short option(s) (-o VALUE, -abc or -vvv)
func (p *ParsedOptions) parseShortOptions(arg string, args []string, i *int) error {
	shortOpts := strings.TrimPrefix(arg, "-")

	// Count occurrences so -vvv means verbose level 3
	var seen []string
	optCounts := make(map[string]int)
	for _, r := range shortOpts {
		short := string(r)
		if _, exists := p.shortMap[short]; !exists {
			return fmt.Errorf("unknown option: -%s", short)
		}
		if optCounts[short] == 0 {
			seen = append(seen, short)
		}
		optCounts[short]++
	}

	for _, short := range seen {
		count := optCounts[short]
		def := p.defs[p.shortMap[short]]

		switch def.Type {
		case OptionTypeBool:
			if err := p.set(def, "true"); err != nil {
				return err
			}

		case OptionTypeInt:
			value := strconv.Itoa(count)
			if count == 1 && *i+1 < len(args) {
				if _, err := strconv.Atoi(args[*i+1]); err == nil {
					*i++
					value = args[*i]
				}
			}
			if err := p.set(def, value); err != nil {
				return err
			}

		case OptionTypeString, OptionTypeList:
			value, ok := nextValue(args, i)
			if !ok {
				return fmt.Errorf("option -%s requires a value", short)
			}
			if err := p.set(def, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// GetString returns a string option value
func (p *ParsedOptions) GetString(option string) string {
	return p.values[option]
}

// GetInt returns an integer option value
func (p *ParsedOptions) GetInt(option string) int {
	if val, exists := p.values[option]; exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return 0
}

// GetBool returns a boolean option value
func (p *ParsedOptions) GetBool(option string) bool {
	return p.values[option] == "true"
}

// GetList returns every value given for a repeatable option
func (p *ParsedOptions) GetList(option string) []string {
	return p.lists[option]
}

// IsSet returns true if an option was explicitly set
func (p *ParsedOptions) IsSet(option string) bool {
	return p.explicitlySet[option]
}

// GetArgs returns non-option arguments
func (p *ParsedOptions) GetArgs() []string {
	return p.args
}

// WriteUsage writes the option table in definition order
func (p *ParsedOptions) WriteUsage(w io.Writer) {
	for _, long := range p.order {
		def := p.defs[long]
		shortOpt := "    "
		if def.Short != "" {
			shortOpt = fmt.Sprintf("-%s, ", def.Short)
		}

		var valueDesc string
		switch def.Type {
		case OptionTypeString, OptionTypeList:
			valueDesc = " VALUE"
		case OptionTypeInt:
			valueDesc = " N"
		}

		flag := "--" + def.Long + valueDesc
		fmt.Fprintf(w, "  %s%-22s %s\n", shortOpt, flag, def.Description)
	}
}
