// Package docs provides generated OpenAPI documentation.
//
// TextHunter API
//
//	@title			TextHunter API
//	@version		1.0
//	@description	Hunt and extract text patterns from pre-extracted PDF text.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/texthunter
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/texthunter/serve.go -o ./swagger --parseDependency --parseInternal
