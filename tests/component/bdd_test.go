//go:build component
// +build component

package component

func (s *ComponentTestSuite) TestSignUp() {
	_, when, then := s.gherkin()

	when().
		aSignUpRequestIsIssued()

	then().
		theAccountIsCreatedAndASessionCookieIsSet().
		theStoredAccountHasDefaultsAndLowerCasedEmail().
		aSessionRowExistsForTheAccount()
}

func (s *ComponentTestSuite) TestSignUpDuplicateNickname() {
	given, when, then := s.gherkin()

	given().
		aSignUpRequestWithNickname("taken").
		theAccountIsCreatedAndASessionCookieIsSet()

	when().
		aSignUpRequestWithNickname("taken")

	then().
		theRequestIsRejectedOnField("nickname").
		onlyOneAccountExists()
}

func (s *ComponentTestSuite) TestSignUpDuplicateEmail() {
	given, when, then := s.gherkin()

	given().
		aSignUpRequestWith("first", "same@example.com").
		theAccountIsCreatedAndASessionCookieIsSet()

	when().
		// distinct nickname so only the email constraint can reject
		aSignUpRequestWith("second", "same@example.com")

	then().
		theRequestIsRejectedOnField("email").
		onlyOneAccountExists()
}
