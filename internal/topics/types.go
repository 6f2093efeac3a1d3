// Package topics maps the two-character CPACC sub-category codes used by the
// source spreadsheet onto the topic slugs used everywhere else.
package topics

// Topic is one sub-category of the CPACC body of knowledge.
type Topic struct {
	Code   string `yaml:"code" json:"code"`
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Domain string `yaml:"domain" json:"domain"`
}

// File is the on-disk shape of a topic map override.
type File struct {
	Topics []Topic `yaml:"topics"`
}

var defaultTopics = []Topic{
	{Code: "1A", ID: "1a-theoretical-models", Name: "Theoretical Models of Disability", Domain: "Disabilities, Challenges, and Assistive Technologies"},
	{Code: "1B", ID: "1b-disability-demographics", Name: "Disability Demographics", Domain: "Disabilities, Challenges, and Assistive Technologies"},
	{Code: "1C", ID: "1c-disability-categories", Name: "Categories of Disabilities and Associated Challenges", Domain: "Disabilities, Challenges, and Assistive Technologies"},
	{Code: "1D", ID: "1d-assistive-technologies", Name: "Assistive Technologies", Domain: "Disabilities, Challenges, and Assistive Technologies"},
	{Code: "1E", ID: "1e-disability-etiquette", Name: "Disability Etiquette and Attitudes", Domain: "Disabilities, Challenges, and Assistive Technologies"},
	{Code: "2A", ID: "2a-accessibility-benefits", Name: "Benefits of Accessibility", Domain: "Accessibility and Universal Design"},
	{Code: "2B", ID: "2b-accessible-design", Name: "Accessible Design of the Built Environment and ICT", Domain: "Accessibility and Universal Design"},
	{Code: "2C", ID: "2c-universal-design", Name: "Universal Design", Domain: "Accessibility and Universal Design"},
	{Code: "2D", ID: "2d-inclusive-design", Name: "Other Inclusive Design Approaches", Domain: "Accessibility and Universal Design"},
	{Code: "3A", ID: "3a-disability-rights", Name: "Disability Rights and the UN CRPD", Domain: "Standards, Laws, and Management Strategies"},
	{Code: "3B", ID: "3b-accessibility-laws", Name: "Accessibility Laws and Policies", Domain: "Standards, Laws, and Management Strategies"},
	{Code: "3C", ID: "3c-accessibility-standards", Name: "Accessibility Standards", Domain: "Standards, Laws, and Management Strategies"},
	{Code: "3D", ID: "3d-management-strategies", Name: "Accessibility Management Strategies", Domain: "Standards, Laws, and Management Strategies"},
}
