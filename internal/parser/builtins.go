package parser

// reservedWords covers JavaScript/TypeScript keywords plus contextual
// keywords (as, from, type, declare, ...) that must never surface as
// declarations or free identifiers.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "export": true,
	"extends": true, "finally": true, "for": true, "function": true,
	"if": true, "import": true, "in": true, "instanceof": true,
	"new": true, "return": true, "super": true, "switch": true,
	"this": true, "throw": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true,
	"yield": true, "let": true, "static": true, "enum": true,
	"await": true, "implements": true, "package": true, "protected": true,
	"interface": true, "private": true, "public": true, "abstract": true,
	"readonly": true, "as": true, "from": true, "type": true,
	"namespace": true, "declare": true, "module": true, "get": true,
	"set": true, "async": true,
}

// builtinNames covers ambient type names and runtime globals that carry no
// information as declarations or usage evidence.
var builtinNames = map[string]bool{
	"string": true, "number": true, "boolean": true, "symbol": true,
	"bigint": true, "undefined": true, "null": true, "object": true,
	"any": true, "unknown": true, "never": true, "void": true,
	"Array": true, "Record": true, "Partial": true, "Required": true,
	"Readonly": true, "Pick": true, "Omit": true, "Exclude": true,
	"Extract": true, "NonNullable": true, "Parameters": true,
	"ReturnType": true, "InstanceType": true, "ThisParameterType": true,
	"OmitThisParameter": true, "ThisType": true, "Uppercase": true,
	"Lowercase": true, "Capitalize": true, "Uncapitalize": true,
	"Promise": true, "Map": true, "Set": true, "WeakMap": true,
	"WeakSet": true, "Date": true, "RegExp": true, "Error": true,
	"Function": true, "String": true, "Number": true, "Boolean": true,
	"Object": true, "console": true, "window": true, "document": true,
	"process": true, "Buffer": true, "Math": true, "JSON": true,
}

func isReserved(name string) bool { return reservedWords[name] }

// isNoiseName reports whether a name should be dropped from declarations and
// identifier evidence alike.
func isNoiseName(name string) bool {
	return reservedWords[name] || builtinNames[name]
}
