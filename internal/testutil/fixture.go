package testutil

import (
	"time"

	"github.com/roach88/specbuilder/internal/schema"
)

// Schema returns the Employee/Phone/SocialSecurity schema used by tests.
//
//	Employee --phones (1:N)--------> Phone
//	Employee --socialSecurity (1:1)> SocialSecurity
//	Phone    --employee (N:1)------> Employee
func Schema() *schema.Schema {
	return schema.MustNew(
		schema.Entity{
			Name:       "Employee",
			Table:      "employees",
			PrimaryKey: "id",
			Attributes: []schema.Attribute{
				{Name: "id", Type: schema.TypeInt},
				{Name: "name", Type: schema.TypeString},
				{Name: "surname", Type: schema.TypeString},
				{Name: "email", Type: schema.TypeString},
				{Name: "birthDate", Column: "birth_date", Type: schema.TypeDate},
			},
			Relations: []schema.Relation{
				{Name: "phones", Target: "Phone", Kind: schema.KindOneToMany, ForeignColumn: "fk_employee_id"},
				{Name: "socialSecurity", Target: "SocialSecurity", Kind: schema.KindOneToOne, LocalColumn: "social_security_id"},
			},
		},
		schema.Entity{
			Name:       "Phone",
			Table:      "phones",
			PrimaryKey: "id",
			Attributes: []schema.Attribute{
				{Name: "id", Type: schema.TypeInt},
				{Name: "phoneType", Column: "phone_type", Type: schema.TypeString},
				{Name: "number", Type: schema.TypeString},
			},
			Relations: []schema.Relation{
				{Name: "employee", Target: "Employee", Kind: schema.KindManyToOne, LocalColumn: "fk_employee_id"},
			},
		},
		schema.Entity{
			Name:       "SocialSecurity",
			Table:      "social_securities",
			PrimaryKey: "id",
			Attributes: []schema.Attribute{
				{Name: "id", Type: schema.TypeInt},
				{Name: "number", Type: schema.TypeString},
				{Name: "verified", Type: schema.TypeBool},
			},
		},
	)
}

// Employee is one fixture employee row.
type Employee struct {
	ID               int64
	Name             string
	Surname          string
	Email            string
	BirthDate        time.Time
	SocialSecurityID int64 // 0 = none
}

// Values returns the row keyed by column name.
func (e Employee) Values() map[string]any {
	v := map[string]any{
		"id":         e.ID,
		"name":       e.Name,
		"surname":    e.Surname,
		"email":      e.Email,
		"birth_date": e.BirthDate.Format(time.DateOnly),
	}
	if e.SocialSecurityID != 0 {
		v["social_security_id"] = e.SocialSecurityID
	}
	return v
}

// Phone is one fixture phone row.
type Phone struct {
	ID         int64
	EmployeeID int64
	PhoneType  string
	Number     string
}

// Values returns the row keyed by column name.
func (p Phone) Values() map[string]any {
	return map[string]any{
		"id":             p.ID,
		"fk_employee_id": p.EmployeeID,
		"phone_type":     p.PhoneType,
		"number":         p.Number,
	}
}

// SocialSecurity is one fixture social security row.
type SocialSecurity struct {
	ID       int64
	Number   string
	Verified bool
}

// Values returns the row keyed by column name.
func (s SocialSecurity) Values() map[string]any {
	return map[string]any{
		"id":       s.ID,
		"number":   s.Number,
		"verified": s.Verified,
	}
}

// Record is a row destined for the table of Entity.
type Record struct {
	Entity string
	Values map[string]any
}

var employees = []struct {
	name, surname, email, birthDate string
}{
	{"Doloritas", "Yewdell", "dyewdell3@earthlink.net", "1991/06/11"},
	{"April", "Cargill", "acargill4@i2i.jp", "2020/08/10"},
	{"Ermina", "Chisnell", "echisnell5@ycombinator.com", "2007/08/13"},
	{"Dominik", "Gyngyll", "dgyngyll6@wix.com", "1991/08/23"},
	{"Marcy", "Schwaiger", "mschwaiger7@diigo.com", "1994/04/14"},
	{"Abbey", "Muddicliffe", "amuddicliffe8@wufoo.com", "2005/06/19"},
	{"Ebony", "Richardeau", "erichardeau9@bluehost.com", "2004/11/15"},
	{"Falkner", "McBay", "fmcbaya@mozilla.org", "1986/03/30"},
	{"Farra", "Tatnell", "ftatnellb@symantec.com", "2001/02/24"},
	{"Filippa", "Willows", "fwillowsc@sbwire.com", "1988/09/20"},
	{"Marietta", "Trowsdale", "mtrowsdaled@mayoclinic.com", "2004/05/04"},
	{"Iggy", "Yanson", "iyansone@forbes.com", "1987/03/23"},
	{"Margy", "Bechley", "mbechleyf@nifty.com", "1986/05/26"},
	{"Norman", "Gresch", "ngreschg@parallels.com", "2008/10/19"},
	{"Tamiko", "MacManus", "tmacmanush@ask.com", "1993/09/15"},
	{"Hillie", "Conklin", "hconklini@google.com.br", "2013/02/18"},
	{"Loren", "Neaverson", "lneaversonj@woothemes.com", "1994/05/05"},
	{"Cammie", "Perago", "cperagok@gravatar.com", "2012/04/07"},
	{"Salim", "Ganing", "sganingl@infoseek.co.jp", "1998/03/17"},
	{"Kass", "Coltherd", "kcoltherdm@techcrunch.com", "1996/11/26"},
	{"Carla", "Lutas", "clutasn@usnews.com", "2001/10/03"},
	{"Standford", "Badwick", "sbadwicko@rediff.com", "2011/01/07"},
	{"Lorne", "Mewis", "lmewisp@alexa.com", "1993/10/15"},
	{"Ric", "Quaife", "rquaifeq@dot.gov", "2019/05/15"},
	{"Paulina", "Benjafield", "pbenjafieldr@wiley.com", "2006/12/04"},
	{"Grant", "Bahl", "gbahls@hatena.ne.jp", "2001/12/09"},
	{"Julieta", "Greenroyd", "jgreenroydt@deviantart.com", "1997/03/11"},
	{"Freemon", "Roth", "frothu@mayoclinic.com", "2013/06/10"},
	{"Alice", "Bentz", "abentzv@icq.com", "2008/08/05"},
	{"Ruthanne", "Haking", "rhakingw@telegraph.co.uk", "2011/03/22"},
	{"Cedric", "Antoniutti", "cantoniuttix@nasa.gov", "2002/01/26"},
	{"Sydney", "Maddison", "smaddisony@bloomberg.com", "1999/10/10"},
	{"Elsy", "McClymont", "emcclymontz@google.it", "2005/08/30"},
	{"Marshal", "Ripping", "mripping10@wsj.com", "1992/07/25"},
	{"Luce", "Sparrow", "lsparrow11@usa.gov", "1990/07/25"},
	{"Blinny", "Lusk", "blusk12@squidoo.com", "1994/10/07"},
}

// Employees returns the 36 fixture employees with IDs 1..36 in
// declaration order. Employees 1 to 4 have a social security record.
func Employees() []Employee {
	out := make([]Employee, len(employees))
	for i, e := range employees {
		birth, err := time.Parse("2006/01/02", e.birthDate)
		if err != nil {
			panic(err)
		}
		out[i] = Employee{
			ID:        int64(i + 1),
			Name:      e.name,
			Surname:   e.surname,
			Email:     e.email,
			BirthDate: birth,
		}
		if i < 4 {
			out[i].SocialSecurityID = int64(i + 1)
		}
	}
	return out
}

// Phones returns the fixture phones. Doloritas (1) has two, April (2)
// and Ermina (3) one each.
func Phones() []Phone {
	return []Phone{
		{ID: 1, EmployeeID: 1, PhoneType: "HOME", Number: "5555"},
		{ID: 2, EmployeeID: 1, PhoneType: "BUSINESS", Number: "55555"},
		{ID: 3, EmployeeID: 2, PhoneType: "HOME", Number: "5556"},
		{ID: 4, EmployeeID: 3, PhoneType: "MOBILE", Number: "5557"},
	}
}

// SocialSecurities returns the fixture social security records.
func SocialSecurities() []SocialSecurity {
	return []SocialSecurity{
		{ID: 1, Number: "SSN-0001", Verified: true},
		{ID: 2, Number: "SSN-0002", Verified: false},
		{ID: 3, Number: "SSN-0003", Verified: true},
		{ID: 4, Number: "SSN-0004", Verified: false},
	}
}

// Records returns every fixture row in insertion order (social security
// records first so employee references resolve).
func Records() []Record {
	var out []Record
	for _, s := range SocialSecurities() {
		out = append(out, Record{Entity: "SocialSecurity", Values: s.Values()})
	}
	for _, e := range Employees() {
		out = append(out, Record{Entity: "Employee", Values: e.Values()})
	}
	for _, p := range Phones() {
		out = append(out, Record{Entity: "Phone", Values: p.Values()})
	}
	return out
}
