package users

import "time"

// User is the account plus the candidate profile used in email prompts.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	Skills         []string  `json:"skills"`
	Experience     string    `json:"experience"`
	Education      string    `json:"education"`
	Certifications []string  `json:"certifications"`
	LinkedInURL    string    `json:"linkedinUrl"`
	GitHubURL      string    `json:"githubUrl"`
	PortfolioURL   string    `json:"portfolioUrl"`
	PictureURL     string    `json:"pictureUrl"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfileInput is a partial profile update; nil fields are left unchanged.
type ProfileInput struct {
	Name           *string   `json:"name"`
	Email          *string   `json:"email"`
	Bio            *string   `json:"bio"`
	Skills         *[]string `json:"skills"`
	Experience     *string   `json:"experience"`
	Education      *string   `json:"education"`
	Certifications *[]string `json:"certifications"`
	LinkedInURL    *string   `json:"linkedinUrl"`
	GitHubURL      *string   `json:"githubUrl"`
	PortfolioURL   *string   `json:"portfolioUrl"`
}

func (in ProfileInput) apply(u User) User {
	setString(&u.Name, in.Name)
	setString(&u.Email, in.Email)
	setString(&u.Bio, in.Bio)
	setString(&u.Experience, in.Experience)
	setString(&u.Education, in.Education)
	setString(&u.LinkedInURL, in.LinkedInURL)
	setString(&u.GitHubURL, in.GitHubURL)
	setString(&u.PortfolioURL, in.PortfolioURL)
	if in.Skills != nil {
		u.Skills = cleanList(*in.Skills)
	}
	if in.Certifications != nil {
		u.Certifications = cleanList(*in.Certifications)
	}
	return u
}
