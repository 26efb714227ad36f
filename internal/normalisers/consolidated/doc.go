// Package consolidated provides the DocumentNormaliser for the UN
// consolidated sanctions list XML.
//
// Expected layout (other elements are ignored):
//
//	<CONSOLIDATED_LIST>
//	  <INDIVIDUALS>
//	    <INDIVIDUAL>
//	      <REFERENCE_NUMBER>QDi.001</REFERENCE_NUMBER>
//	      <FIRST_NAME>John</FIRST_NAME>
//	      <SECOND_NAME>DOE</SECOND_NAME>
//	      <INDIVIDUAL_ALIAS>
//	        <ALIAS_NAME>J. Doe</ALIAS_NAME>
//	      </INDIVIDUAL_ALIAS>
//	    </INDIVIDUAL>
//	  </INDIVIDUALS>
//	</CONSOLIDATED_LIST>
package consolidated
