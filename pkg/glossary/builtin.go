package glossary

import "github.com/bastiangx/glosstip/pkg/registry"

// Builtin returns a small general-purpose glossary used when no file is configured.
func Builtin() []registry.Entry {
	return []registry.Entry{
		{Key: "API", Description: "Application Programming Interface"},
		{Key: "CLI", Description: "Command-Line Interface"},
		{Key: "CPU", Description: "Central Processing Unit"},
		{Key: "CSS", Description: "Cascading Style Sheets"},
		{Key: "DNS", Description: "Domain Name System"},
		{Key: "GPU", Description: "Graphics Processing Unit"},
		{Key: "HTML", Description: "HyperText Markup Language"},
		{Key: "HTTP", Description: "Hypertext Transfer Protocol"},
		{Key: "IDE", Description: "Integrated Development Environment"},
		{Key: "JSON", Description: "JavaScript Object Notation"},
		{Key: "LRU", Description: "Least Recently Used"},
		{Key: "OS", Description: "Operating System"},
		{Key: "RAM", Description: "Random Access Memory"},
		{Key: "RTL", Description: "Right-To-Left"},
		{Key: "SDK", Description: "Software Development Kit"},
		{Key: "SQL", Description: "Structured Query Language"},
		{Key: "TLS", Description: "Transport Layer Security"},
		{Key: "UI", Description: "User Interface"},
		{Key: "URL", Description: "Uniform Resource Locator"},
		{Key: "UX", Description: "User Experience"},
	}
}
