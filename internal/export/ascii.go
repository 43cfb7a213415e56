package export

import "strings"

var asciiFolder = strings.NewReplacer(
	"─", "-", "│", "|",
	"┌", "+", "┐", "+", "└", "+", "┘", "+",
	"├", "+", "┤", "+", "┬", "+", "┴", "+", "┼", "+",
	"═", "=", "║", "|",
	"╔", "+", "╗", "+", "╚", "+", "╝", "+",
	"╠", "+", "╣", "+", "╦", "+", "╩", "+", "╬", "+",
	"📊", " [Chart] ", "📋", " [Clipboard] ", "📅", " [Calendar] ",
	"👥", " [People] ", "👨‍🏫", " [Teacher] ", "📚", " [Books] ",
	"✅", " [Yes] ", "❌", " [No] ", "ℹ️", " [Info] ",
	"📁", " [Folder] ", "📂", " [Open Folder] ", "📄", " [Document] ",
	"📤", " [Upload] ", "📥", " [Download] ", "⚙️", " [Settings] ",
	"🗑️", " [Trash] ", "🔍", " [Search] ", "💾", " [Save] ",
	"📦", " [Package] ", "🔁", " [Repeat] ", "⚠️", " [Warning] ",
	"👤", " [Person] ", "📈", " [Chart Up] ", "🔄", " [Refresh] ",
	"🧹", " [Broom] ", "📭", " [Mailbox] ", "⏳", " [Hourglass] ",
	"🚀", " [Rocket] ", "🎓", " [Graduation] ", "🏫", " [School] ",
	"🏢", " [Building] ",
)

// ASCII replaces box-drawing characters and common pictographs with plain text
// so spreadsheet tools that ignore the BOM still render the file.
func ASCII(s string) string {
	return asciiFolder.Replace(s)
}

// BOM is the UTF-8 byte order mark prefixed to CSV downloads.
const BOM = "\uFEFF"
